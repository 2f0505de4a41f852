package share

import (
	"strings"
	"testing"

	"syntree/bracket"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	text := "[S [NP [DET the] [N dog]] [VP [V snores]]]"
	f := bracket.Parse(text)

	link, err := EncodeURL("https://example.com/index.html", f)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := Decode(link)
	if !ok {
		t.Fatal("encoded link did not decode")
	}
	if got != text {
		t.Errorf("decoded %q, want %q", got, text)
	}
}

func TestEncodePercentEscapes(t *testing.T) {
	f := bracket.Parse("[S hi]")
	enc := Encode(f)
	if strings.ContainsAny(enc, "[] ") {
		t.Errorf("encoding not escaped: %q", enc)
	}
	if !strings.HasPrefix(enc, Param+"=") {
		t.Errorf("missing %q parameter: %q", Param, enc)
	}
}

func TestDecodeLegacyParam(t *testing.T) {
	got, ok := Decode("https://example.com/?tree=%5BS%20hi%5D")
	if !ok || got != "[S hi]" {
		t.Errorf("legacy decode = %q, %v", got, ok)
	}
}

func TestDecodePrefersCurrentParam(t *testing.T) {
	got, ok := Decode("https://example.com/?tree=%5BA%5D&i=%5BB%5D")
	if !ok || got != "[B]" {
		t.Errorf("decode = %q, want the i parameter", got)
	}
}

func TestDecodeBareQueryString(t *testing.T) {
	got, ok := Decode("i=%5BS%20hi%5D")
	if !ok || got != "[S hi]" {
		t.Errorf("bare query decode = %q, %v", got, ok)
	}
}

func TestDecodeMissing(t *testing.T) {
	if _, ok := Decode("https://example.com/"); ok {
		t.Error("decoded a link with no diagram parameter")
	}
}

func TestEncodeURLReplacesExisting(t *testing.T) {
	f := bracket.Parse("[B]")
	link, err := EncodeURL("https://example.com/?tree=%5BA%5D", f)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(link, "tree=") {
		t.Errorf("legacy parameter survived re-encoding: %q", link)
	}
	got, ok := Decode(link)
	if !ok || got != "[B]" {
		t.Errorf("re-encoded link decodes to %q", got)
	}
}
