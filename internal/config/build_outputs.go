// Build output detection from project configuration files. The walker excludes
// these directories so generated bundles are never classified as source.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// BuildOutputDetector finds build output directories declared by the project's
// own tooling configuration (package.json, tsconfig.json, vite config, Tauri).
type BuildOutputDetector struct {
	projectRoot string
}

// NewBuildOutputDetector creates a detector for the given project root.
func NewBuildOutputDetector(projectRoot string) *BuildOutputDetector {
	return &BuildOutputDetector{projectRoot: projectRoot}
}

// DetectOutputDirectories returns glob patterns to exclude from walking
// (e.g., "**/dist/**"). Unreadable or malformed config files are ignored.
func (d *BuildOutputDetector) DetectOutputDirectories() []string {
	var patterns []string
	patterns = append(patterns, d.detectPackageJSONOutputs()...)
	patterns = append(patterns, d.detectTSConfigOutputs()...)
	patterns = append(patterns, d.detectViteOutputs()...)
	patterns = append(patterns, d.detectTauriOutputs()...)
	return dedupe(patterns)
}

func (d *BuildOutputDetector) detectPackageJSONOutputs() []string {
	var patterns []string

	data, err := os.ReadFile(filepath.Join(d.projectRoot, "package.json"))
	if err != nil {
		return nil
	}
	var pkg map[string]interface{}
	if json.Unmarshal(data, &pkg) != nil {
		return nil
	}

	if buildConfig, ok := pkg["build"].(map[string]interface{}); ok {
		if outDir, ok := buildConfig["outDir"].(string); ok && outDir != "" {
			patterns = append(patterns, "**/"+strings.Trim(outDir, "./")+"/**")
		}
	}
	if scripts, ok := pkg["scripts"].(map[string]interface{}); ok {
		for _, script := range scripts {
			scriptStr, ok := script.(string)
			if !ok {
				continue
			}
			parts := strings.Fields(scriptStr)
			for i, part := range parts {
				if (part == "--outDir" || part == "-outDir") && i+1 < len(parts) {
					outDir := strings.Trim(parts[i+1], "\"'")
					if outDir != "" {
						patterns = append(patterns, "**/"+strings.Trim(outDir, "./")+"/**")
					}
				}
			}
		}
	}
	return patterns
}

func (d *BuildOutputDetector) detectTSConfigOutputs() []string {
	data, err := os.ReadFile(filepath.Join(d.projectRoot, "tsconfig.json"))
	if err != nil {
		return nil
	}
	var tsconfig map[string]interface{}
	if json.Unmarshal(data, &tsconfig) != nil {
		return nil
	}
	if compilerOptions, ok := tsconfig["compilerOptions"].(map[string]interface{}); ok {
		if outDir, ok := compilerOptions["outDir"].(string); ok && outDir != "" {
			return []string{"**/" + strings.Trim(outDir, "./") + "/**"}
		}
	}
	return nil
}

// detectViteOutputs reads build.outDir from a vite config with a quote-scan
// heuristic; vite configs are executable modules, not data.
func (d *BuildOutputDetector) detectViteOutputs() []string {
	for _, name := range []string{"vite.config.js", "vite.config.ts", "vite.config.mjs"} {
		data, err := os.ReadFile(filepath.Join(d.projectRoot, name))
		if err != nil {
			continue
		}
		content := string(data)
		idx := strings.Index(content, "outDir")
		if idx == -1 {
			continue
		}
		substr := content[idx+len("outDir"):]
		colonIdx := strings.Index(substr, ":")
		if colonIdx == -1 {
			continue
		}
		substr = substr[colonIdx+1:]
		for _, quote := range []string{"'", "\""} {
			if strings.Contains(substr, quote) {
				parts := strings.Split(substr, quote)
				if len(parts) >= 2 {
					dirName := strings.TrimSpace(parts[1])
					if dirName != "" {
						return []string{"**/" + strings.Trim(dirName, "./") + "/**"}
					}
				}
				break
			}
		}
	}
	return nil
}

// detectTauriOutputs handles hybrid Tauri apps: the Rust side's target
// directory lives inside the React tree and must not be walked.
func (d *BuildOutputDetector) detectTauriOutputs() []string {
	for _, cargoPath := range []string{
		filepath.Join(d.projectRoot, "src-tauri", "Cargo.toml"),
		filepath.Join(d.projectRoot, "Cargo.toml"),
	} {
		data, err := os.ReadFile(cargoPath)
		if err != nil {
			continue
		}
		var cargo struct {
			Build struct {
				TargetDir string `toml:"target-dir"`
			} `toml:"build"`
		}
		targetDir := "target"
		if toml.Unmarshal(data, &cargo) == nil && cargo.Build.TargetDir != "" {
			targetDir = cargo.Build.TargetDir
		}
		return []string{"**/" + strings.Trim(targetDir, "./") + "/**", "**/src-tauri/**"}
	}
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
