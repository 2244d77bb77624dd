package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kduhealth/medportal/internal/log"
)

// DefaultConfigTemplate renders the default config as commented YAML.
func DefaultConfigTemplate() (string, error) {
	out, err := yaml.Marshal(defaultDocument(Defaults()))
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}
	return string(out), nil
}

// WriteDefaultConfig creates a config file with defaults at path. Parent
// directories are created as needed.
func WriteDefaultConfig(path string) error {
	content, err := DefaultConfigTemplate()
	if err != nil {
		return err
	}
	if err := writeAtomic(path, []byte(content)); err != nil {
		return err
	}
	log.Info(log.CatConfig, "wrote default config", "path", path)
	return nil
}

// SaveFlag sets flags.<name> in the config file at path, keeping the rest
// of the document (comments included) intact.
func SaveFlag(path, name string, on bool) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from config resolution
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if len(doc.Content) == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	flagsNode := lookup(root, "flags")
	if flagsNode == nil || flagsNode.Kind != yaml.MappingNode {
		flagsNode = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		setKey(root, "flags", flagsNode)
	}
	setKey(flagsNode, name, boolNode(on))

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := writeAtomic(path, out); err != nil {
		return err
	}
	log.Info(log.CatConfig, "saved flag", "flag", name, "enabled", on)
	return nil
}

// writeAtomic writes through a temp file and renames it into place.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

func defaultDocument(d Config) *yaml.Node {
	flagNames := make([]string, 0, len(d.Flags))
	for name := range d.Flags {
		flagNames = append(flagNames, name)
	}
	slices.Sort(flagNames)
	flagPairs := make([]*yaml.Node, 0, 2*len(flagNames))
	for _, name := range flagNames {
		flagPairs = append(flagPairs, strNode(name), boolNode(d.Flags[name]))
	}

	root := mapping(
		commented(strNode("institution"), "Institution whose members may sign up."),
		mapping(
			strNode("name"), strNode(d.Institution.Name),
			commented(strNode("email_domain"), "Sign-up emails must end in @<email_domain>."), strNode(d.Institution.EmailDomain),
		),
		commented(strNode("storage"), "SQLite database holding accounts and profiles."),
		mapping(strNode("path"), strNode(d.Storage.Path)),
		commented(strNode("events"), "Registration events. Leave nats_url empty to stay in-process."),
		mapping(
			strNode("nats_url"), strNode(d.Events.NATSURL),
			strNode("subject"), strNode(d.Events.Subject),
		),
		commented(strNode("metrics"), "Prometheus endpoint, e.g. \"127.0.0.1:9464\". Empty disables it."),
		mapping(strNode("listen"), strNode(d.Metrics.Listen)),
		commented(strNode("tracing"), "OpenTelemetry spans for each registration."),
		mapping(
			strNode("enabled"), boolNode(d.Tracing.Enabled),
			commented(strNode("exporter"), "none, file, stdout or otlp"), strNode(d.Tracing.Exporter),
			strNode("file_path"), strNode(d.Tracing.FilePath),
			strNode("otlp_endpoint"), strNode(d.Tracing.OTLPEndpoint),
			strNode("sample_rate"), floatNode(d.Tracing.SampleRate),
		),
		strNode("cache"),
		mapping(strNode("profile_ttl"), strNode(d.Cache.ProfileTTL.String())),
		strNode("ui"),
		mapping(commented(strNode("markdown_style"), "dark, light or notty"), strNode(d.UI.MarkdownStyle)),
		commented(strNode("flags"), "Feature flags."),
		mapping(flagPairs...),
	)
	root.HeadComment = "medportal configuration"
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
}

func mapping(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: pairs}
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func boolNode(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

func floatNode(f float64) *yaml.Node {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
}

func commented(n *yaml.Node, comment string) *yaml.Node {
	n.HeadComment = comment
	return n
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func setKey(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, strNode(key), value)
}
