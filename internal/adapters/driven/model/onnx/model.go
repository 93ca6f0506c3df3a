package onnx

import (
	"context"
	"fmt"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/custodia-labs/ragkit/internal/core/domain"
	"github.com/custodia-labs/ragkit/internal/core/ports/driven"
	"github.com/custodia-labs/ragkit/internal/logger"
)

// Ensure Model implements the interface.
var _ driven.EncoderModel = (*Model)(nil)

const (
	inputIDs           = "input_ids"
	inputAttentionMask = "attention_mask"
	inputTokenTypeIDs  = "token_type_ids"
	outputHiddenState  = "last_hidden_state"

	// specialTokens counts [CLS] and [SEP].
	specialTokens = 2
)

// Model is a loaded tokenizer and ONNX encoder session.
type Model struct {
	mu sync.Mutex

	cfg        Config
	tk         *tokenizer.Tokenizer
	session    *ort.DynamicAdvancedSession
	inputNames []string
	outputName string
	closed     bool
}

// Open checks the model files, initialises ONNX Runtime and loads the
// tokenizer and session.
func Open(cfg Config) (*Model, error) {
	if err := Check(cfg); err != nil {
		return nil, err
	}
	lib, err := ResolveLibrary(cfg)
	if err != nil {
		return nil, err
	}

	tk, err := pretrained.FromFile(cfg.TokenizerPath())
	if err != nil {
		return nil, fmt.Errorf("%w: load tokenizer: %w", domain.ErrModelUnavailable, err)
	}
	// Batching decides lengths; Forward truncates to MaxLength itself.
	tk.WithTruncation(nil)
	tk.WithPadding(nil)

	if !ort.IsInitialized() {
		ort.SetSharedLibraryPath(lib)
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: onnx init environment: %w", domain.ErrModelUnavailable, err)
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath())
	if err != nil {
		_ = ort.DestroyEnvironment()
		return nil, fmt.Errorf("onnx get input/output info: %w", err)
	}

	inputNames, outputName, err := selectNames(inputs, outputs)
	if err != nil {
		_ = ort.DestroyEnvironment()
		return nil, err
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath(), inputNames, []string{outputName}, nil)
	if err != nil {
		_ = ort.DestroyEnvironment()
		return nil, fmt.Errorf("onnx new session: %w", err)
	}

	logger.Debug("Loaded %s (inputs %v, output %s)", cfg.ModelPath(), inputNames, outputName)
	return &Model{
		cfg:        cfg,
		tk:         tk,
		session:    session,
		inputNames: inputNames,
		outputName: outputName,
	}, nil
}

// selectNames picks the encoder inputs the graph declares and its hidden-state output.
func selectNames(inputs, outputs []ort.InputOutputInfo) ([]string, string, error) {
	declared := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		declared[in.Name] = true
	}
	if !declared[inputIDs] || !declared[inputAttentionMask] {
		return nil, "", fmt.Errorf("onnx model lacks %s or %s inputs", inputIDs, inputAttentionMask)
	}

	names := []string{inputIDs, inputAttentionMask}
	if declared[inputTokenTypeIDs] {
		names = append(names, inputTokenTypeIDs)
	}

	if len(outputs) == 0 {
		return nil, "", fmt.Errorf("onnx model has no outputs")
	}
	output := outputs[0].Name
	for _, out := range outputs {
		if out.Name == outputHiddenState {
			output = out.Name
			break
		}
	}
	return names, output, nil
}

// Name returns the model identifier.
func (m *Model) Name() string { return m.cfg.Name() }

// MaxLength returns the longest input, in ids, the model accepts.
func (m *Model) MaxLength() int { return m.cfg.MaxLength }

// SpecialTokens returns the number of ids added around every input.
func (m *Model) SpecialTokens() int { return specialTokens }

// Dimensions returns the hidden size.
func (m *Model) Dimensions() int { return m.cfg.Dimensions }

// Tokenize splits text into word pieces.
func (m *Model) Tokenize(text string) ([]string, error) {
	enc, err := m.tk.EncodeSingle(text, false)
	if err != nil {
		return nil, err
	}
	return enc.Tokens, nil
}

// TokenLength returns the number of ids token encodes to.
func (m *Model) TokenLength(token string) (int, error) {
	enc, err := m.tk.EncodeSingle(token, false)
	if err != nil {
		return 0, err
	}
	return len(enc.Ids), nil
}

// Forward runs the encoder over text and returns its last hidden states.
func (m *Model) Forward(ctx context.Context, text string) ([][]float32, []int, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	enc, err := m.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, nil, fmt.Errorf("encode: %w", err)
	}
	in := truncate(newEncoderInput(enc.Ids, enc.AttentionMask, enc.TypeIds), m.cfg.MaxLength)
	n := len(in.ids)
	if n == 0 {
		return nil, nil, fmt.Errorf("encode: empty input")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, nil, fmt.Errorf("model is closed")
	}

	shape := ort.NewShape(1, int64(n))
	values := map[string][]int64{
		inputIDs:           in.ids,
		inputAttentionMask: in.mask,
		inputTokenTypeIDs:  in.typeIDs,
	}

	inputs := make([]ort.Value, 0, len(m.inputNames))
	defer func() {
		for _, v := range inputs {
			_ = v.Destroy()
		}
	}()
	for _, name := range m.inputNames {
		t, err := ort.NewTensor(shape, values[name])
		if err != nil {
			return nil, nil, fmt.Errorf("onnx new %s tensor: %w", name, err)
		}
		inputs = append(inputs, t)
	}

	dims := m.cfg.Dimensions
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(n), int64(dims)))
	if err != nil {
		return nil, nil, fmt.Errorf("onnx new output tensor: %w", err)
	}
	defer output.Destroy()

	if err := m.session.Run(inputs, []ort.Value{output}); err != nil {
		return nil, nil, fmt.Errorf("onnx run: %w", err)
	}

	data := output.GetData()
	hidden := make([][]float32, n)
	for i := range hidden {
		row := make([]float32, dims)
		copy(row, data[i*dims:(i+1)*dims])
		hidden[i] = row
	}

	mask := make([]int, n)
	for i, v := range in.mask {
		mask[i] = int(v)
	}
	return hidden, mask, nil
}

// Close destroys the session and the ONNX Runtime environment.
func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true

	var err error
	if m.session != nil {
		err = m.session.Destroy()
	}
	if envErr := ort.DestroyEnvironment(); err == nil {
		err = envErr
	}
	return err
}
