package upscale

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/upscale/backend"
	"github.com/gogpu/upscale/envconfig"
)

var modelDirs = [...]string{
	ModelUpconv7Anime: "models-upconv_7_anime_style_art_rgb",
	ModelUpconv7Photo: "models-upconv_7_photo",
	ModelCUNet:        "models-cunet",
}

// ModelDir returns the variant directory name of model.
func ModelDir(model int) string {
	if model < 0 || model >= len(modelDirs) {
		return ""
	}
	return modelDirs[model]
}

// ModelBaseName returns the file name, without extension, of the network for
// noise and scale.
func ModelBaseName(noise, scale int) string {
	switch {
	case noise == -1:
		return "scale2.0x_model"
	case scale == 1:
		return fmt.Sprintf("noise%d_model", noise)
	default:
		return fmt.Sprintf("noise%d_scale2.0x_model", noise)
	}
}

// ModelFiles returns the asset paths for cfg under root, one per extension of
// format.
func ModelFiles(root string, cfg Config, format backend.ModelFormat) []string {
	base := filepath.Join(root, ModelDir(cfg.Model), ModelBaseName(cfg.Noise, cfg.Scale))
	files := make([]string, len(format.Extensions))
	for i, ext := range format.Extensions {
		files[i] = base + ext
	}
	return files
}

// checkModelFiles verifies every asset is a readable regular file.
func checkModelFiles(files []string) error {
	for _, f := range files {
		st, err := os.Stat(f)
		if err != nil {
			return &InitError{Op: "failed to load model", Err: err}
		}
		if !st.Mode().IsRegular() {
			return &InitError{Op: "failed to load model", Err: fmt.Errorf("%s is not a regular file", f)}
		}
	}
	return nil
}

func (o *options) modelRoot() string {
	if o.modelDir != "" {
		return o.modelDir
	}
	return envconfig.Models()
}
