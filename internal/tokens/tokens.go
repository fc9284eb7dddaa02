// Package tokens counts language-model tokens in file content.
package tokens

import (
	"fmt"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Counter counts the tokens of a text.
type Counter interface {
	Count(text string) (int, error)
	Name() string
}

// Tokenizer kinds accepted by New.
const (
	KindTiktoken    = "tiktoken"
	KindHuggingFace = "huggingface"
)

const (
	DefaultTiktokenModel = "gpt-4o"
	DefaultHFModel       = "gpt2"
)

// Tiktoken counts with an OpenAI BPE encoding.
type Tiktoken struct {
	model string
	enc   *tiktoken.Tiktoken
}

func (t *Tiktoken) Count(text string) (int, error) {
	return len(t.enc.EncodeOrdinary(text)), nil
}

func (t *Tiktoken) Name() string { return KindTiktoken + ":" + t.model }

// HuggingFace counts with a tokenizer.json loaded through sugarme/tokenizer.
type HuggingFace struct {
	source string
	tk     *hf.Tokenizer
}

func (h *HuggingFace) Count(text string) (int, error) {
	en, err := h.tk.EncodeSingle(text)
	if err != nil {
		return 0, fmt.Errorf("encode: %w", err)
	}
	return len(en.Tokens), nil
}

func (h *HuggingFace) Name() string { return KindHuggingFace + ":" + h.source }

// New builds a counter. An empty model selects the kind's default; for the
// HuggingFace kind a non-empty file is loaded instead of fetching the model
// from the hub.
func New(kind, model, file string) (Counter, error) {
	switch strings.ToLower(kind) {
	case "", KindTiktoken:
		return NewTiktoken(model)
	case KindHuggingFace, "hf":
		if file != "" {
			return NewHuggingFaceFile(file)
		}
		return NewHuggingFace(model)
	default:
		return nil, fmt.Errorf("unsupported tokenizer %q: use %q or %q", kind, KindTiktoken, KindHuggingFace)
	}
}

// NewTiktoken returns the encoding for model. Unknown models fall back to
// the default model.
func NewTiktoken(model string) (*Tiktoken, error) {
	if model == "" {
		model = DefaultTiktokenModel
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		if model == DefaultTiktokenModel {
			return nil, fmt.Errorf("tiktoken encoding for %s: %w", model, err)
		}
		return NewTiktoken(DefaultTiktokenModel)
	}
	return &Tiktoken{model: model, enc: enc}, nil
}

// NewHuggingFaceFile loads a local tokenizer.json.
func NewHuggingFaceFile(file string) (*HuggingFace, error) {
	tk, err := pretrained.FromFile(file)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer from %s: %w", file, err)
	}
	return &HuggingFace{source: file, tk: tk}, nil
}

// NewHuggingFace resolves the model's tokenizer.json through the local
// cache, downloading it on first use.
func NewHuggingFace(model string) (*HuggingFace, error) {
	if model == "" {
		model = DefaultHFModel
	}
	path, err := hf.CachedPath(model, "tokenizer.json")
	if err != nil {
		return nil, fmt.Errorf("cache path for model %s: %w", model, err)
	}
	h, err := NewHuggingFaceFile(path)
	if err != nil {
		return nil, err
	}
	h.source = model
	return h, nil
}
