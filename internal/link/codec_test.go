package link

import (
	"encoding/base64"
	"testing"
)

func TestDecodeBase64IfValid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		alphabet Alphabet
		want     string
	}{
		{name: "standard padded", input: "aGVsbG8=", alphabet: StdAlphabet, want: "hello"},
		{name: "standard unpadded", input: "aGVsbG8", alphabet: StdAlphabet, want: "hello"},
		{name: "url-safe", input: "YWVzLTI1Ni1nY206cGFzcw==", alphabet: URLAlphabet, want: "aes-256-gcm:pass"},
		{name: "surrounding whitespace", input: "  aGVsbG8=  \n", alphabet: StdAlphabet, want: "hello"},
		{name: "empty", input: "", alphabet: StdAlphabet, want: ""},
		{name: "only whitespace", input: "   ", alphabet: StdAlphabet, want: ""},
		{name: "interior space", input: "aGVs bG8=", alphabet: StdAlphabet, want: ""},
		{name: "colon not in alphabet", input: "vmess://abc", alphabet: StdAlphabet, want: ""},
		{name: "std chars rejected by url alphabet", input: "ab+/cd", alphabet: URLAlphabet, want: ""},
		{name: "url chars rejected by std alphabet", input: "ab-_cd", alphabet: StdAlphabet, want: ""},
		{name: "too much padding", input: "aGVsbG8===", alphabet: StdAlphabet, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeBase64IfValid(tt.input, tt.alphabet)
			if got != tt.want {
				t.Errorf("DecodeBase64IfValid(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeBase64IfValidNeverPartial(t *testing.T) {
	// One bad character anywhere must reject the whole input, not yield
	// a prefix decode.
	valid := base64.StdEncoding.EncodeToString([]byte("trailing garbage test"))
	if got := DecodeBase64IfValid(valid+"!", StdAlphabet); got != "" {
		t.Errorf("expected empty result for tainted input, got %q", got)
	}
}

func TestSubstrHelpers(t *testing.T) {
	if got := SubstrBefore("method:password", ":"); got != "method" {
		t.Errorf("SubstrBefore = %q", got)
	}
	if got := SubstrBefore("no-separator", ":"); got != "no-separator" {
		t.Errorf("SubstrBefore without sep = %q", got)
	}
	if got := SubstrAfter("method:pass:word", ":"); got != "pass:word" {
		t.Errorf("SubstrAfter = %q", got)
	}
	if got := SubstrAfter("no-separator", ":"); got != "" {
		t.Errorf("SubstrAfter without sep = %q", got)
	}
}
