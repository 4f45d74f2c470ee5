// Package onnx implements turn.CompletionScorer using a locally hosted
// ONNX multilingual turn-completion model, a drop-in replacement for
// turn.HeuristicScorer when higher accuracy across code-switched Indic
// utterances is needed.
package onnx

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/vaak-ai/voicecore/pkg/turn/internal"
)

const modelFileRel = "onnx/model_q8.onnx"

var (
	ortOnce    sync.Once
	ortInitErr error
)

// ensureEnv initializes the ONNX runtime environment exactly once per
// process, regardless of how many Scorers are constructed.
func ensureEnv() error {
	ortOnce.Do(func() {
		if libPath := os.Getenv("ONNXRUNTIME_LIB"); libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		} else if runtime.GOOS == "darwin" {
			ort.SetSharedLibraryPath("/opt/homebrew/lib/libonnxruntime.dylib")
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// Scorer is a turn.CompletionScorer backed by a quantized ONNX model. The
// session and tokenizer load lazily on first Score call so constructing a
// Scorer never touches disk.
type Scorer struct {
	modelInfo internal.ModelInfo
	modelPath string

	sessionOnce sync.Once
	session     *ort.Session[float32]
	sessionErr  error

	tokenizerOnce sync.Once
	tok           *tokenizer.Tokenizer
	tokenizerErr  error
}

// New creates a Scorer for the named model revision ("compact" or
// "multilingual"). modelPath is the directory containing fetched model
// artifacts; an empty modelPath uses the process's working directory.
func New(modelName, modelPath string) (*Scorer, error) {
	var info internal.ModelInfo
	found := false
	for _, m := range internal.AllModels {
		if m.Name == modelName {
			info, found = m, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("turn/onnx: unknown model %q", modelName)
	}
	if modelPath == "" {
		modelPath = "."
	}
	return &Scorer{modelInfo: info, modelPath: modelPath}, nil
}

func (s *Scorer) loadSession() error {
	s.sessionOnce.Do(func() {
		modelFile := internal.GetModelFilePath(s.modelPath, s.modelInfo.Revision, modelFileRel)
		if _, err := os.Stat(modelFile); os.IsNotExist(err) {
			s.sessionErr = fmt.Errorf("turn/onnx: model file not found: %s", modelFile)
			return
		}
		if err := ensureEnv(); err != nil {
			s.sessionErr = fmt.Errorf("turn/onnx: initializing runtime: %w", err)
			return
		}

		options, err := ort.NewSessionOptions()
		if err != nil {
			s.sessionErr = fmt.Errorf("turn/onnx: session options: %w", err)
			return
		}
		defer options.Destroy()

		intraOpThreads := max(1, runtime.NumCPU()/2)
		if err := options.SetIntraOpNumThreads(intraOpThreads); err != nil {
			s.sessionErr = fmt.Errorf("turn/onnx: intra-op threads: %w", err)
			return
		}
		if err := options.SetInterOpNumThreads(1); err != nil {
			s.sessionErr = fmt.Errorf("turn/onnx: inter-op threads: %w", err)
			return
		}

		dummyShape := ort.NewShape(1, 1)
		dummyInput, err := ort.NewTensor(dummyShape, []float32{0})
		if err != nil {
			s.sessionErr = fmt.Errorf("turn/onnx: dummy input tensor: %w", err)
			return
		}
		defer dummyInput.Destroy()

		dummyOutput, err := ort.NewEmptyTensor[float32](dummyShape)
		if err != nil {
			s.sessionErr = fmt.Errorf("turn/onnx: dummy output tensor: %w", err)
			return
		}
		defer dummyOutput.Destroy()

		session, err := ort.NewSession[float32](
			modelFile,
			[]string{"input_ids"},
			[]string{"logits"},
			[]*ort.Tensor[float32]{dummyInput},
			[]*ort.Tensor[float32]{dummyOutput},
		)
		if err != nil {
			s.sessionErr = fmt.Errorf("turn/onnx: creating session: %w", err)
			return
		}
		s.session = session
	})
	return s.sessionErr
}

func (s *Scorer) loadTokenizer() error {
	s.tokenizerOnce.Do(func() {
		tokenizerFile := internal.GetModelFilePath(s.modelPath, s.modelInfo.Revision, "tokenizer.json")
		if _, err := os.Stat(tokenizerFile); os.IsNotExist(err) {
			s.tokenizerErr = fmt.Errorf("turn/onnx: tokenizer file not found: %s", tokenizerFile)
			return
		}
		tk, err := pretrained.FromFile(tokenizerFile)
		if err != nil {
			s.tokenizerErr = fmt.Errorf("turn/onnx: loading tokenizer: %w", err)
			return
		}
		s.tok = tk
	})
	return s.tokenizerErr
}

// Score runs the model over text and returns the sigmoid-normalized
// probability that it is a complete utterance.
func (s *Scorer) Score(ctx context.Context, text, langCode string) (float64, error) {
	if err := s.loadSession(); err != nil {
		return 0, err
	}
	if err := s.loadTokenizer(); err != nil {
		return 0, err
	}

	encoding, err := s.tok.EncodeSingle(text, false)
	if err != nil {
		return 0, fmt.Errorf("turn/onnx: tokenizing: %w", err)
	}
	ids := encoding.Ids
	if len(ids) == 0 {
		return 0, nil
	}

	inputData := make([]float32, len(ids))
	for i, id := range ids {
		inputData[i] = float32(id)
	}

	inputShape := ort.NewShape(1, int64(len(ids)))
	input, err := ort.NewTensor(inputShape, inputData)
	if err != nil {
		return 0, fmt.Errorf("turn/onnx: input tensor: %w", err)
	}
	defer input.Destroy()

	outputShape := ort.NewShape(1, 1)
	output, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		return 0, fmt.Errorf("turn/onnx: output tensor: %w", err)
	}
	defer output.Destroy()

	if err := s.session.Run([]*ort.Tensor[float32]{input}, []*ort.Tensor[float32]{output}); err != nil {
		return 0, fmt.Errorf("turn/onnx: inference: %w", err)
	}

	logit := output.GetData()[0]
	return sigmoid(float64(logit)), nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
