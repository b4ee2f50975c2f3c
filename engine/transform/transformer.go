package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/mobai/mobai-http/pkg/logger"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	ScreenshotEndpoint = "/screenshot"
	DSLExecuteEndpoint = "/dsl/execute"

	// DefaultBlobPrefix is used when a caller does not name one.
	DefaultBlobPrefix = "dsl"
)

// BlobSaver persists decoded screenshot bytes and returns their reference.
type BlobSaver interface {
	Save(ctx context.Context, data []byte, prefix string) (string, error)
}

// Transformer replaces inline base64 screenshots in response bodies with
// file references.
type Transformer struct {
	store BlobSaver
}

func New(store BlobSaver) *Transformer {
	return &Transformer{store: store}
}

// Transform rewrites body according to the endpoint it was fetched from.
// Bodies that match no rule are returned as is. The only error is a blob
// store failure; the upstream key order and number formatting are kept.
func (t *Transformer) Transform(ctx context.Context, body []byte, endpoint string) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return body, nil
	}
	switch {
	case strings.Contains(endpoint, ScreenshotEndpoint):
		return t.screenshotResponse(ctx, body)
	case strings.Contains(endpoint, DSLExecuteEndpoint):
		return t.dslResponse(ctx, body)
	default:
		return body, nil
	}
}

// screenshotResponse collapses {data, format: "png"} into a saved reference.
// A truthy path means the body was already processed.
func (t *Transformer) screenshotResponse(ctx context.Context, body []byte) ([]byte, error) {
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return body, nil
	}
	data := root.Get("data")
	if data.Type != gjson.String || data.Str == "" {
		return body, nil
	}
	if format := root.Get("format"); format.Type != gjson.String || format.Str != "png" {
		return body, nil
	}
	if truthy(root.Get("path")) {
		return body, nil
	}
	ref, err := t.store.Save(ctx, DecodeBase64(data.Str), "")
	if err != nil {
		return nil, fmt.Errorf("failed to save screenshot: %w", err)
	}
	logger.FromContext(ctx).Debug("Externalized screenshot", "path", ref)
	out := []byte(`{}`)
	for _, kv := range []struct {
		key   string
		value any
	}{
		{"path", ref},
		{"format", "png"},
		{savedKey, true},
	} {
		if out, err = sjson.SetBytes(out, kv.key, kv.value); err != nil {
			return nil, fmt.Errorf("failed to build screenshot reference: %w", err)
		}
	}
	return out, nil
}

// dslResponse externalizes the native observation and debug screenshots of
// every step independently.
func (t *Transformer) dslResponse(ctx context.Context, body []byte) ([]byte, error) {
	steps := gjson.GetBytes(body, stepsKey)
	if !steps.IsArray() {
		return body, nil
	}
	count := len(steps.Array())
	var err error
	for i := range count {
		for _, slot := range []Slot{NativeSlot(i), DebugSlot(i)} {
			if body, err = t.Externalize(ctx, body, slot); err != nil {
				return nil, err
			}
		}
	}
	return body, nil
}

// Externalize saves the inline screenshot at slot and rewrites the field to
// the returned reference with screenshot_saved set. Values that already look
// like references are left untouched.
func (t *Transformer) Externalize(ctx context.Context, body []byte, slot Slot) ([]byte, error) {
	value, ok := slot.Candidate(body)
	if !ok || IsReference(value) {
		return body, nil
	}
	prefix := slot.Prefix
	if prefix == "" {
		prefix = DefaultBlobPrefix
	}
	ref, err := t.store.Save(ctx, DecodeBase64(value), prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to externalize %s: %w", slot.screenshotPath(), err)
	}
	out, err := sjson.SetBytes(body, slot.screenshotPath(), ref)
	if err != nil {
		return nil, fmt.Errorf("failed to rewrite %s: %w", slot.screenshotPath(), err)
	}
	out, err = sjson.SetBytes(out, slot.savedPath(), true)
	if err != nil {
		return nil, fmt.Errorf("failed to mark %s: %w", slot.savedPath(), err)
	}
	logger.FromContext(ctx).Debug("Externalized screenshot", "field", slot.screenshotPath(), "path", ref)
	return out, nil
}
