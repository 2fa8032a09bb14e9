// Package app wires the content, checks, search and linkcheck packages into
// the operations behind each CLI command.
package app

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/GhostScientist/dev-toolbox/internal/catalog"
	"github.com/GhostScientist/dev-toolbox/internal/config"
	"github.com/GhostScientist/dev-toolbox/internal/content"
	"github.com/GhostScientist/dev-toolbox/internal/schema"
)

// Problem is one line of a validation report.
type Problem struct {
	Path    string
	Field   string
	Rule    string
	Message string
}

// String renders the problem as "<path>: <field>: <rule>: <message>",
// leaving out the field when the problem is not about one.
func (p Problem) String() string {
	parts := []string{p.Path}
	if p.Field != "" {
		parts = append(parts, p.Field)
	}
	parts = append(parts, p.Rule, p.Message)
	return strings.Join(parts, ": ")
}

// ReportedError is a failure whose details already went through the Reporter.
// Callers only need its exit status.
type ReportedError struct {
	msg string
}

func (e *ReportedError) Error() string {
	return e.msg
}

func reported(format string, args ...any) error {
	return &ReportedError{msg: fmt.Sprintf(format, args...)}
}

// Project is a content root together with its resolved configuration.
type Project struct {
	Root   string
	Config config.Config
}

// Open loads the configuration for root. An explicit configPath must exist;
// otherwise toolbox.toml in root is optional.
func Open(root, configPath string) (Project, error) {
	var (
		file config.File
		err  error
	)
	if strings.TrimSpace(configPath) != "" {
		file, err = config.ParseFile(configPath, false)
	} else {
		file, err = config.Load(root)
	}
	if err != nil {
		return Project{}, err
	}
	return Project{Root: root, Config: file.Config}, nil
}

func (p Project) Content() config.ContentConfig {
	return p.Config.Content.Resolve(p.Root)
}

func (p Project) Dirs() content.Dirs {
	c := p.Content()
	return content.Dirs{Tools: c.Tools, Tips: c.Tips}
}

func (p Project) dir(kind catalog.Kind) string {
	if kind == catalog.KindTip {
		return p.Content().Tips
	}
	return p.Content().Tools
}

// Schema returns the JSON Schema document for the named kind.
func Schema(kind string) ([]byte, error) {
	k, ok := catalog.ParseKind(kind)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q (want tools or tips)", kind)
	}
	return schema.JSONSchema(k)
}

func ensureLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
