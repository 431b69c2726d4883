package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load configuration from a .summarizerd.kdl file in
// configDir. A missing file is not an error; callers get (nil, nil) and
// should fall back to Defaults().
func LoadKDL(configDir string) (*Config, error) {
	kdlPath := filepath.Join(configDir, ".summarizerd.kdl")

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", kdlPath, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", kdlPath, err)
	}

	if cfg.Language.DictionaryPath != "" && !filepath.IsAbs(cfg.Language.DictionaryPath) {
		cfg.Language.DictionaryPath = filepath.Join(configDir, cfg.Language.DictionaryPath)
	}

	return cfg, nil
}

// parseKDL parses a .summarizerd.kdl document, starting from Defaults() and
// overwriting whatever nodes are present.
func parseKDL(content string) (*Config, error) {
	cfg := Defaults()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse KDL: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "daemon":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "port":
					if v, ok := firstIntArg(cn); ok {
						cfg.Daemon.Port = v
					}
				case "log_file":
					assignSimpleString(cn, "log_file", func(v string) { cfg.Daemon.LogFile = v })
				case "log_level":
					if v, ok := firstIntArg(cn); ok {
						cfg.Daemon.LogLevel = v
					}
				case "max_clients":
					if v, ok := firstIntArg(cn); ok {
						cfg.Daemon.MaxClients = v
					}
				case "workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Daemon.Workers = v
					}
				case "pid_file":
					assignSimpleString(cn, "pid_file", func(v string) { cfg.Daemon.PidFile = v })
				case "foreground":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Daemon.Foreground = b
					}
				case "watch_dictionary":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Daemon.WatchDictionary = b
					}
				case "max_input_size":
					if s, ok := firstStringArg(cn); ok {
						if v, err := parseSize(s); err == nil {
							cfg.Daemon.MaxInputSize = v
						} else {
							log.Printf("WARNING: invalid max_input_size %q in KDL config: %v", s, err)
						}
					}
				}
			}
		case "grader":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "dedupe":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Grader.Dedupe = b
					}
				case "dedupe_threshold":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Grader.DedupeThreshold = v
					}
				}
			}
		case "language":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "dictionary_path":
					assignSimpleString(cn, "dictionary_path", func(v string) { cfg.Language.DictionaryPath = v })
				case "pack_glob":
					assignSimpleString(cn, "pack_glob", func(v string) { cfg.Language.PackGlob = v })
				}
			}
		}
	}

	return cfg, nil
}

// nodeName returns n's node name, or "" for a nil node.
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		log.Printf("WARNING: invalid float value for %q in KDL config, expected number but got %T", nodeName(n), n.Arguments[0].Value)
		return 0, false
	}
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB", used to parse
// the daemon section's max_input_size node.
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		multiplier = 1
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}
