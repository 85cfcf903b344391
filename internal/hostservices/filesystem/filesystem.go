// Package filesystem is the "filesystem" host service: file copy, symlink
// management, and line-in-file editing folded into one HostService,
// grounded on streamy's internal/plugins/copy (copyFile/copyDirectory,
// preserve-mode handling), internal/plugins/symlink (Lstat-then-Symlink,
// force-replace semantics) and internal/plugins/lineinfile (file_ops.go's
// splitLines/joinLines/writeFileAtomic, matcher.go's findMatches/
// appendLineIfMissing/replaceLines/removeMatchedLines). Each plugin's
// Check/Apply/DryRun/Verify reconciliation collapses to one method on this
// service, since this engine performs the write once per Action rather
// than re-evaluating drift on every run. line_in_file reports its change
// as a unified diff via pkg/diff, the teacher's verify-plugin diffing
// library repointed at an edit result instead of a drift report.
package filesystem

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/flowcore/flowcore/internal/hostservice"
	"github.com/flowcore/flowcore/pkg/diff"
	"github.com/flowcore/flowcore/pkg/value"
)

// Service implements hostservice.HostService.
type Service struct{}

var _ hostservice.HostService = Service{}

// Execute dispatches to copy, symlink, or line_in_file by method name.
func (s Service) Execute(_ context.Context, method string, params map[string]value.VariableValue) (hostservice.ServiceResult, error) {
	switch method {
	case "copy":
		return s.copy(params)
	case "symlink":
		return s.symlink(params)
	case "line_in_file":
		return s.lineInFile(params)
	default:
		return hostservice.Failure(fmt.Sprintf("filesystem: unsupported method %q", method)), nil
	}
}

func stringParam(params map[string]value.VariableValue, name string) (string, bool) {
	p, ok := params[name]
	if !ok {
		return "", false
	}
	return p.StringValue()
}

func boolParam(params map[string]value.VariableValue, name string) bool {
	p, ok := params[name]
	if !ok {
		return false
	}
	b, _ := p.BoolValue()
	return b
}

// copy ------------------------------------------------------------------

func (Service) copy(params map[string]value.VariableValue) (hostservice.ServiceResult, error) {
	src, ok := stringParam(params, "source")
	if !ok {
		return hostservice.Failure("filesystem: missing required param \"source\""), nil
	}
	dst, ok := stringParam(params, "destination")
	if !ok {
		return hostservice.Failure("filesystem: missing required param \"destination\""), nil
	}
	overwrite := boolParam(params, "overwrite")
	recursive := boolParam(params, "recursive")
	preserve := true
	if p, ok := params["preserveMode"]; ok {
		if b, ok := p.BoolValue(); ok {
			preserve = b
		}
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return hostservice.Failure(fmt.Sprintf("filesystem: cannot stat source %s: %v", src, err)), nil
	}

	if srcInfo.IsDir() {
		if !recursive {
			return hostservice.Failure(fmt.Sprintf("filesystem: source %s is a directory; set recursive", src)), nil
		}
		if err := copyDirectory(src, dst, preserve); err != nil {
			return hostservice.Failure(fmt.Sprintf("filesystem: copy failed: %v", err)), nil
		}
	} else {
		if err := copyFile(src, dst, preserve, overwrite); err != nil {
			return hostservice.Failure(fmt.Sprintf("filesystem: copy failed: %v", err)), nil
		}
	}

	return hostservice.Ok(value.Object(value.Entry("destination", value.String(dst)))), nil
}

func copyFile(src, dst string, preserveMode, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(dst); err == nil {
			return fmt.Errorf("destination %s exists", dst)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if preserveMode {
		mode = srcInfo.Mode()
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_RDWR|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	if preserveMode {
		return os.Chmod(dst, srcInfo.Mode())
	}
	return nil
}

func copyDirectory(src, dst string, preserveMode bool) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		if d.IsDir() {
			mode := os.FileMode(0o755)
			if preserveMode {
				mode = info.Mode()
			}
			if err := os.MkdirAll(target, mode); err != nil {
				return err
			}
			if preserveMode {
				return os.Chmod(target, info.Mode())
			}
			return nil
		}

		return copyFile(path, target, preserveMode, true)
	})
}

// symlink -----------------------------------------------------------------

func (Service) symlink(params map[string]value.VariableValue) (hostservice.ServiceResult, error) {
	source, ok := stringParam(params, "source")
	if !ok {
		return hostservice.Failure("filesystem: missing required param \"source\""), nil
	}
	target, ok := stringParam(params, "target")
	if !ok {
		return hostservice.Failure("filesystem: missing required param \"target\""), nil
	}
	force := boolParam(params, "force")

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return hostservice.Failure(fmt.Sprintf("filesystem: %v", err)), nil
	}

	if _, err := os.Lstat(target); err == nil {
		if !force {
			return hostservice.Failure(fmt.Sprintf("filesystem: target %s already exists", target)), nil
		}
		if err := os.Remove(target); err != nil {
			return hostservice.Failure(fmt.Sprintf("filesystem: %v", err)), nil
		}
	}

	if err := os.Symlink(source, target); err != nil {
		return hostservice.Failure(fmt.Sprintf("filesystem: symlink failed: %v", err)), nil
	}

	return hostservice.Ok(value.Object(
		value.Entry("source", value.String(source)),
		value.Entry("target", value.String(target)),
	)), nil
}

// line_in_file --------------------------------------------------------------

const (
	lineStatePresent = "present"
	lineStateAbsent  = "absent"
)

func (Service) lineInFile(params map[string]value.VariableValue) (hostservice.ServiceResult, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return hostservice.Failure("filesystem: missing required param \"path\""), nil
	}
	state, ok := stringParam(params, "state")
	if !ok {
		state = lineStatePresent
	}

	data, perm, existed, err := readFileLines(path)
	if err != nil {
		return hostservice.Failure(fmt.Sprintf("filesystem: %v", err)), nil
	}
	lines, trailing := splitLines(data)

	var changed bool

	switch state {
	case lineStatePresent:
		line, ok := stringParam(params, "line")
		if !ok {
			return hostservice.Failure("filesystem: \"line\" is required when state is \"present\""), nil
		}
		if patternText, ok := stringParam(params, "regexp"); ok && patternText != "" {
			pattern, err := regexp.Compile(patternText)
			if err != nil {
				return hostservice.Failure(fmt.Sprintf("filesystem: invalid regexp: %v", err)), nil
			}
			matches := findMatches(lines, pattern)
			if matches.matched {
				idx := matches.lineNumbers[0]
				if lines[idx] != line {
					lines[idx] = line
					changed = true
				}
			} else {
				lines = append(lines, line)
				changed = true
			}
		} else {
			lines, changed = appendLineIfMissing(lines, line)
		}
	case lineStateAbsent:
		patternText, hasPattern := stringParam(params, "regexp")
		line, hasLine := stringParam(params, "line")
		switch {
		case hasPattern && patternText != "":
			pattern, err := regexp.Compile(patternText)
			if err != nil {
				return hostservice.Failure(fmt.Sprintf("filesystem: invalid regexp: %v", err)), nil
			}
			matches := findMatches(lines, pattern)
			lines, changed = removeMatchedLines(lines, matches)
		case hasLine:
			lines, changed = removeLine(lines, line)
		default:
			return hostservice.Failure("filesystem: \"line\" or \"regexp\" is required when state is \"absent\""), nil
		}
	default:
		return hostservice.Failure(fmt.Sprintf("filesystem: unsupported state %q", state)), nil
	}

	if !changed && existed {
		return hostservice.Ok(value.Object(value.Entry("changed", value.Bool(false)))), nil
	}

	out := joinLines(lines, trailing)
	if err := writeFileAtomic(path, []byte(out), perm); err != nil {
		return hostservice.Failure(fmt.Sprintf("filesystem: %v", err)), nil
	}

	unified := diff.GenerateUnifiedDiff([]byte(data), []byte(out), path+".orig", path)

	return hostservice.Ok(value.Object(
		value.Entry("changed", value.Bool(true)),
		value.Entry("diff", value.String(unified)),
	)), nil
}

func readFileLines(path string) (content string, perm os.FileMode, existed bool, err error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return "", 0o644, false, nil
		}
		return "", 0, false, statErr
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return "", 0, false, readErr
	}
	return string(data), info.Mode().Perm(), true, nil
}

func splitLines(content string) ([]string, bool) {
	if content == "" {
		return []string{}, false
	}
	trailing := strings.HasSuffix(content, "\n")
	trimmed := content
	if trailing {
		trimmed = strings.TrimSuffix(content, "\n")
	}
	if trimmed == "" {
		if trailing {
			return []string{}, true
		}
		return []string{""}, false
	}
	return strings.Split(trimmed, "\n"), trailing
}

func joinLines(lines []string, trailing bool) string {
	if len(lines) == 0 {
		if trailing {
			return "\n"
		}
		return ""
	}
	joined := strings.Join(lines, "\n")
	if trailing {
		return joined + "\n"
	}
	return joined
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".flowcore-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

type matchResult struct {
	matched     bool
	lineNumbers []int
}

func findMatches(lines []string, pattern *regexp.Regexp) *matchResult {
	result := &matchResult{}
	for idx, line := range lines {
		if pattern.MatchString(line) {
			result.matched = true
			result.lineNumbers = append(result.lineNumbers, idx)
		}
	}
	return result
}

func appendLineIfMissing(lines []string, line string) ([]string, bool) {
	for _, existing := range lines {
		if existing == line {
			return lines, false
		}
	}
	return append(lines, line), true
}

func removeLine(lines []string, line string) ([]string, bool) {
	filtered := make([]string, 0, len(lines))
	changed := false
	for _, existing := range lines {
		if existing == line {
			changed = true
			continue
		}
		filtered = append(filtered, existing)
	}
	return filtered, changed
}

func removeMatchedLines(lines []string, result *matchResult) ([]string, bool) {
	if result == nil || !result.matched {
		return lines, false
	}
	filtered := make([]string, 0, len(lines))
	matchIdx := 0
	for i, line := range lines {
		if matchIdx < len(result.lineNumbers) && i == result.lineNumbers[matchIdx] {
			matchIdx++
			continue
		}
		filtered = append(filtered, line)
	}
	return filtered, len(filtered) != len(lines)
}
