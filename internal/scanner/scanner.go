// Package scanner discovers skill packages on disk. A skill package is a
// directory containing a SKILL.md marker file. The scanner extracts a short
// description from the marker's YAML frontmatter, falling back to the first
// content line of the body. It never fails a whole scan because one marker
// file is unreadable or malformed.
package scanner

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"github.com/haimv/skilldock/internal/config"
)

// DescriptionLimit bounds fallback descriptions taken from the body, in runes
const DescriptionLimit = 100

// DefaultDeepScanDepth bounds DeepScan recursion
const DefaultDeepScanDepth = 5

// Skill is the lightweight metadata extracted for a discovered package
type Skill struct {
	Name        string // directory basename
	Path        string // absolute package directory
	Description string
}

// Scanner discovers skill packages
type Scanner struct{}

// New creates a new Scanner
func New() *Scanner {
	return &Scanner{}
}

// Scan lists the immediate subdirectories of dir that contain the marker
// file, sorted by name. Hidden entries are skipped. A missing dir yields an
// empty result, not an error.
func (s *Scanner) Scan(dir string) ([]Skill, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var skills []Skill
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		pkgDir := filepath.Join(dir, entry.Name())
		markerPath := filepath.Join(pkgDir, config.MarkerFile)
		if _, err := os.Stat(markerPath); err != nil {
			continue
		}

		skills = append(skills, Skill{
			Name:        entry.Name(),
			Path:        pkgDir,
			Description: s.Describe(markerPath),
		})
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

// IsSkillDir reports whether dir contains the marker file
func (s *Scanner) IsSkillDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, config.MarkerFile))
	return err == nil && !info.IsDir()
}

// DeepScan returns the absolute paths of every directory within root that
// contains the marker file, depth-first, descending at most maxDepth levels
// (DefaultDeepScanDepth when maxDepth <= 0). Hidden directories are skipped.
// A directory that is itself a package is not descended further.
func (s *Scanner) DeepScan(root string, maxDepth int) []string {
	if maxDepth <= 0 {
		maxDepth = DefaultDeepScanDepth
	}
	var found []string
	s.deepScan(root, 0, maxDepth, &found)
	return found
}

func (s *Scanner) deepScan(dir string, depth, maxDepth int, found *[]string) {
	if s.IsSkillDir(dir) {
		*found = append(*found, dir)
		return
	}
	if depth >= maxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		s.deepScan(filepath.Join(dir, entry.Name()), depth+1, maxDepth, found)
	}
}

// Describe extracts a description from a marker file. The frontmatter
// description field wins; otherwise the first non-blank, non-heading body
// line is used, truncated to DescriptionLimit. Unreadable or malformed
// files degrade to an empty description.
func (s *Scanner) Describe(markerPath string) string {
	content, err := os.ReadFile(markerPath)
	if err != nil {
		return ""
	}

	if desc := frontmatterDescription(content); desc != "" {
		return desc
	}
	return firstBodyLine(content)
}

func frontmatterDescription(content []byte) string {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return ""
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return ""
	}
	desc, _ := metaData["description"].(string)
	return strings.TrimSpace(desc)
}

func firstBodyLine(content []byte) string {
	lines := strings.Split(string(content), "\n")

	// Skip a frontmatter block delimited by a pair of separator lines
	i := 0
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		for i = 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				i++
				break
			}
		}
	}

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Truncate on runes so a multi-byte character is never split
		if runes := []rune(line); len(runes) > DescriptionLimit {
			return string(runes[:DescriptionLimit]) + "..."
		}
		return line
	}
	return ""
}
