package config

import (
	"os"
	"path/filepath"
)

// Tool describes a known AI tool that can mirror the warehouse.
// RootDir is the tool's anchor directory; its presence means the tool is
// installed. SkillDirs are candidate skill directories relative to home,
// ordered newest layout first. Detection uses the first candidate that
// exists; creation always uses the first candidate.
type Tool struct {
	ID        string
	Name      string
	RootDir   string
	SkillDirs []string
}

// KnownTools is the fixed table of supported tools
var KnownTools = []Tool{
	{
		ID:        "claude",
		Name:      "Claude Code",
		RootDir:   ".claude",
		SkillDirs: []string{".claude/skills"},
	},
	{
		ID:        "codex",
		Name:      "Codex CLI",
		RootDir:   ".codex",
		SkillDirs: []string{".codex/skills"},
	},
	{
		ID:        "cursor",
		Name:      "Cursor",
		RootDir:   ".cursor",
		SkillDirs: []string{".cursor/skills"},
	},
	{
		ID:        "windsurf",
		Name:      "Windsurf",
		RootDir:   ".windsurf",
		SkillDirs: []string{".windsurf/skills"},
	},
	{
		ID:        "opencode",
		Name:      "OpenCode",
		RootDir:   ".config/opencode",
		SkillDirs: []string{".config/opencode/skills", ".opencode/skills"},
	},
	{
		ID:        "gemini",
		Name:      "Gemini CLI",
		RootDir:   ".gemini",
		SkillDirs: []string{".gemini/skills"},
	},
}

// FindTool returns the tool with the given id
func FindTool(id string) (Tool, bool) {
	for _, t := range KnownTools {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// ToolRootPath returns the absolute anchor path of a tool
func (p *Paths) ToolRootPath(t Tool) string {
	return filepath.Join(p.home, t.RootDir)
}

// ToolSkillCandidates returns all absolute candidate skill paths for a tool,
// honoring a config.toml override as the sole candidate when present
func (p *Paths) ToolSkillCandidates(t Tool) []string {
	cfg, err := LoadConfig(p.DockDir)
	if err == nil {
		if override, ok := cfg.ToolPaths[t.ID]; ok && override != "" {
			return []string{expandHome(override, p.home)}
		}
	}

	candidates := make([]string, 0, len(t.SkillDirs))
	for _, rel := range t.SkillDirs {
		candidates = append(candidates, filepath.Join(p.home, rel))
	}
	return candidates
}

// ToolSkillPath returns the effective skill path for a tool: the first
// candidate that exists, else the first candidate
func (p *Paths) ToolSkillPath(t Tool) string {
	candidates := p.ToolSkillCandidates(t)
	for _, c := range candidates {
		if _, err := os.Lstat(c); err == nil {
			return c
		}
	}
	return candidates[0]
}
