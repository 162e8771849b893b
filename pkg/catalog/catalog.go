// Package catalog builds and persists point-in-time snapshots of the
// capabilities discovered through an mcphost.Host. The host itself never
// caches or writes discovery results; this package is the caller-side
// component that turns one discovery pass into a YAML catalog document
// grouped by server.
package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/toolforge/mcp-host-go/pkg/mcphost"
)

// Separator joins a server name and a capability name into a qualified
// identifier. Double underscore stays within the MCP spec's character
// guidance for tool names.
const Separator = "__"

// QualifiedName prefixes a capability name with its originating server so a
// merged catalog never collides across servers.
func QualifiedName(server, name string) string {
	return server + Separator + name
}

// Source lists capabilities across every connected server. *mcphost.Host
// satisfies it.
type Source interface {
	ListAllTools(context.Context) []mcphost.ServerTool
	ListAllPrompts(context.Context) []mcphost.ServerPrompt
	ListAllResources(context.Context) []mcphost.ServerResource
}

// Metadata is the header block of a written catalog.
type Metadata struct {
	Title          string `yaml:"title"`
	Generated      string `yaml:"generated"`
	Servers        int    `yaml:"servers"`
	TotalTools     int    `yaml:"total_tools"`
	TotalPrompts   int    `yaml:"total_prompts"`
	TotalResources int    `yaml:"total_resources"`
}

// ToolEntry is one catalogued tool.
type ToolEntry struct {
	Name        string `yaml:"name"`
	Qualified   string `yaml:"qualified"`
	Description string `yaml:"description,omitempty"`
}

// PromptEntry is one catalogued prompt template.
type PromptEntry struct {
	Name        string `yaml:"name"`
	Qualified   string `yaml:"qualified"`
	Description string `yaml:"description,omitempty"`
}

// ResourceEntry is one catalogued resource.
type ResourceEntry struct {
	URI         string `yaml:"uri"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	MIMEType    string `yaml:"mime_type,omitempty"`
}

// ServerCatalog groups one server's capabilities.
type ServerCatalog struct {
	Name      string          `yaml:"name"`
	Tools     []ToolEntry     `yaml:"tools,omitempty"`
	Prompts   []PromptEntry   `yaml:"prompts,omitempty"`
	Resources []ResourceEntry `yaml:"resources,omitempty"`
}

// Snapshot is a complete catalog document.
type Snapshot struct {
	Metadata Metadata        `yaml:"metadata"`
	Servers  []ServerCatalog `yaml:"servers"`
}

// Build runs one discovery pass against src and assembles a Snapshot. Servers
// appear in sorted-name order; within a server, items keep the order the
// server returned them in.
func Build(ctx context.Context, src Source) *Snapshot {
	tools := src.ListAllTools(ctx)
	prompts := src.ListAllPrompts(ctx)
	resources := src.ListAllResources(ctx)

	sections := make(map[string]*ServerCatalog)
	section := func(server string) *ServerCatalog {
		if sec, ok := sections[server]; ok {
			return sec
		}
		sec := &ServerCatalog{Name: server}
		sections[server] = sec
		return sec
	}

	for _, st := range tools {
		sec := section(st.Server)
		sec.Tools = append(sec.Tools, ToolEntry{
			Name:        st.Tool.Name,
			Qualified:   QualifiedName(st.Server, st.Tool.Name),
			Description: st.Tool.Description,
		})
	}
	for _, sp := range prompts {
		sec := section(sp.Server)
		sec.Prompts = append(sec.Prompts, PromptEntry{
			Name:        sp.Prompt.Name,
			Qualified:   QualifiedName(sp.Server, sp.Prompt.Name),
			Description: sp.Prompt.Description,
		})
	}
	for _, sr := range resources {
		sec := section(sr.Server)
		sec.Resources = append(sec.Resources, ResourceEntry{
			URI:         sr.Resource.URI,
			Name:        sr.Resource.Name,
			Description: sr.Resource.Description,
			MIMEType:    sr.Resource.MIMEType,
		})
	}

	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	snap := &Snapshot{
		Metadata: Metadata{
			Title:          "Capability Catalog",
			Generated:      time.Now().Format("2006-01-02"),
			Servers:        len(names),
			TotalTools:     len(tools),
			TotalPrompts:   len(prompts),
			TotalResources: len(resources),
		},
	}
	for _, name := range names {
		snap.Servers = append(snap.Servers, *sections[name])
	}
	return snap
}

// WriteYAML encodes the snapshot as YAML.
func (s *Snapshot) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("catalog: encode: %w", err)
	}
	return enc.Close()
}

// WriteFile writes the snapshot to path, creating or truncating the file.
func (s *Snapshot) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := s.WriteYAML(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
