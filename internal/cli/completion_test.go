package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{"_wordcount_completions", "complete -F _wordcount_completions wordcount", "--max-documents", "--urls-file|--output|-o|--calibration-profile)", "trace debug info warn error"}},
		{"zsh", []string{"#compdef wordcount", "'(-n --max-documents)'{-n,--max-documents}", "--urls-file[File with one URL per line]:file:_files", "--url[Document URL]:url:"}},
		{"fish", []string{"complete -c wordcount -f", "complete -c wordcount -s n -l max-documents", "-l output", "-rF", "# Sources"}},
		{"powershell", []string{"Register-ArgumentCompleter -CommandName 'wordcount'", "'--log-level'", "'--completion'"}},
		{"ps", []string{"Register-ArgumentCompleter"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			if err := GenerateCompletion(&out, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion(%q) failed: %v", tt.shell, err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out.String(), want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	err := GenerateCompletion(&out, "tcsh")
	if err == nil || !strings.Contains(err.Error(), "unsupported shell") {
		t.Errorf("expected unsupported shell error, got %v", err)
	}
}

func TestFlagRegistryHasUniqueNames(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for _, f := range flagRegistry {
		for _, name := range []string{f.Long, "-" + f.Short} {
			if name == "" || name == "-" {
				continue
			}
			if seen[name] {
				t.Errorf("duplicate flag %q in registry", name)
			}
			seen[name] = true
		}
	}
}
