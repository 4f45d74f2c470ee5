// Package internal holds model metadata for the ONNX-backed multilingual
// turn-completion scorer: which artifacts a model revision needs and where
// on disk they live once fetched.
package internal

import "path/filepath"

// ModelInfo describes one downloadable model revision.
type ModelInfo struct {
	Name       string // "compact", "multilingual"
	Repo       string
	Revision   string
	Size       int64
	SHA256Hash string // empty means unverified
	Files      []string
}

var (
	CompactModel = ModelInfo{
		Name:       "compact",
		Repo:       "vaak-ai/turn-completion-scorer",
		Revision:   "v1.0.0-compact",
		Size:       66 * 1024 * 1024,
		SHA256Hash: "",
		Files:      []string{"onnx/model_q8.onnx", "tokenizer.json", "languages.json"},
	}

	MultilingualModel = ModelInfo{
		Name:       "multilingual",
		Repo:       "vaak-ai/turn-completion-scorer",
		Revision:   "v1.0.0-multilingual",
		Size:       281 * 1024 * 1024,
		SHA256Hash: "",
		Files:      []string{"onnx/model_q8.onnx", "tokenizer.json", "languages.json"},
	}

	AllModels = []ModelInfo{CompactModel, MultilingualModel}
)

// GetModelPath returns the directory where a revision is stored.
func GetModelPath(basePath, revision string) string {
	return filepath.Join(basePath, "turn-completion-scorer", revision)
}

// GetModelFilePath returns the absolute path to a specific file for a revision.
func GetModelFilePath(basePath, revision, filename string) string {
	return filepath.Join(GetModelPath(basePath, revision), filename)
}
