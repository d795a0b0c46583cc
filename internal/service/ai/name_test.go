package ai

import "testing"

func TestExtractName(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"hyphenated slug", "https://www.linkedin.com/in/john-doe", "John Doe"},
		{"numeric suffix stripped", "https://www.linkedin.com/in/john-doe-12345", "John Doe"},
		{"single letter segments dropped", "https://linkedin.com/in/felix-m-weber/", "Felix Weber"},
		{"only first two segments", "https://linkedin.com/in/mary-ann-smith-jones", "Mary Ann"},
		{"camel case", "https://linkedin.com/in/JaneSmith", "Jane Smith"},
		{"lower case single word", "https://linkedin.com/in/sarah", "Sarah"},
		{"query string ignored", "https://linkedin.com/in/alex-kim?trk=abc", "Alex Kim"},
		{"upper case slug", "https://linkedin.com/in/BOB-LEE", "Bob Lee"},
		{"too short", "https://linkedin.com/in/jo", FallbackName},
		{"all segments too short", "https://linkedin.com/in/a-b", FallbackName},
		{"digits only", "https://linkedin.com/in/123456", FallbackName},
		{"not linkedin", "https://example.com/profile/john-doe", FallbackName},
		{"empty", "", FallbackName},
		{"garbage", "::::not a url", FallbackName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractName(tt.url); got != tt.expected {
				t.Errorf("ExtractName(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestExtractName_Total(t *testing.T) {
	inputs := []string{
		"linkedin.com/in/",
		"linkedin.com/in/-",
		"linkedin.com/in/----",
		"linkedin.com/in/ÄÖÜ-ßß",
		"https://linkedin.com/in/%E2%9C%93",
		"\x00\xff",
	}
	for _, in := range inputs {
		got := ExtractName(in)
		if got == "" {
			t.Errorf("ExtractName(%q) returned empty string", in)
		}
	}
}
