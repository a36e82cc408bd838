package config

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// sectionOrder is the order sections appear in a written config file.
// Unknown sections follow in name order.
var sectionOrder = []string{"window", "browser", "search", "downloads", "bridge", "events", "logging"}

var tableHeader = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)

// WriteConfigOrdered encodes cfg as TOML with a stable section order and a
// schema directive editors understand.
func WriteConfigOrdered(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	out := "#:schema ./" + schemaFileName + "\n\n" + orderSections(buf.String())
	if err := os.WriteFile(path, []byte(out), filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

type tomlBlock struct {
	name  string
	lines []string
}

// orderSections regroups encoded TOML by top-level section. Sub-tables stay
// right after their parent.
func orderSections(content string) string {
	var preamble []string
	var blocks []*tomlBlock

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := tableHeader.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, &tomlBlock{name: m[1]})
		}
		if len(blocks) == 0 {
			preamble = append(preamble, line)
			continue
		}
		last := blocks[len(blocks)-1]
		last.lines = append(last.lines, line)
	}

	slices.SortStableFunc(blocks, func(a, b *tomlBlock) int {
		ra, rb := sectionRank(a.name), sectionRank(b.name)
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a.name, b.name)
	})

	var sb strings.Builder
	for _, line := range preamble {
		sb.WriteString(line + "\n")
	}
	for i, b := range blocks {
		if i > 0 || len(preamble) > 0 {
			sb.WriteString("\n")
		}
		for _, line := range b.lines {
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}

func sectionRank(name string) int {
	top, _, _ := strings.Cut(name, ".")
	if i := slices.Index(sectionOrder, top); i >= 0 {
		return i
	}
	return len(sectionOrder)
}
