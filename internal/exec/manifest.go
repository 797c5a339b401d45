package exec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

// CreateManifest creates a run manifest for audit purposes
func CreateManifest(spec CommandSpec, result *Result, runID string) *RunManifest {
	return &RunManifest{
		Timestamp:    time.Now(),
		RunID:        runID,
		Command:      append([]string{spec.Path()}, spec.Args()...),
		Mode:         spec.Mode().String(),
		ExitCode:     result.ExitCode,
		Duration:     result.Duration.String(),
		OutputDigest: DigestOutput(result.Output),
	}
}

// DigestOutput returns the hex BLAKE3 digest of captured command output
func DigestOutput(output string) string {
	sum := blake3.Sum256([]byte(output))
	return hex.EncodeToString(sum[:])
}

// SaveManifest writes a run manifest to disk
func SaveManifest(manifest *RunManifest, dir string) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.json",
		manifest.Timestamp.Format("20060102_150405.000000"),
		manifestSlug(manifest.Command))
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

func manifestSlug(command []string) string {
	if len(command) == 0 {
		return "command"
	}
	return strings.ReplaceAll(filepath.Base(command[0]), ".", "_")
}
