package utils

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"pocket_library/lang"
)

var (
	ErrDialogCancelled   = errors.New("file selection cancelled")
	ErrDialogUnavailable = errors.New("file selection dialog unavailable")
)

// imagePatterns are the extensions offered by the cover photo picker.
var imagePatterns = []string{"*.jpg", "*.jpeg", "*.png", "*.gif", "*.webp"}

// SelectImageDialog opens a system-specific dialog for choosing an image file
// and returns its absolute path. If the dialog is cancelled,
// ErrDialogCancelled is returned.
func SelectImageDialog(start string) (string, error) {
	if start == "" {
		if home, err := os.UserHomeDir(); err == nil {
			start = home
		}
	}

	var (
		path string
		err  error
	)
	switch runtime.GOOS {
	case "darwin":
		path, err = selectImageDarwin(start)
	case "windows":
		path, err = selectImageWindows(start)
	default:
		path, err = selectImageLinux(start)
	}
	if err != nil {
		return "", err
	}
	if !IsImageFile(path) {
		return "", fmt.Errorf("not an image file: %s", path)
	}
	return path, nil
}

func selectImageDarwin(start string) (string, error) {
	cleanStart := filepath.Clean(start)
	if info, err := os.Stat(cleanStart); err != nil || !info.IsDir() {
		if home, err := os.UserHomeDir(); err == nil {
			cleanStart = home
		} else {
			cleanStart = "/"
		}
	}
	prompt := lang.Active().Dialog.SelectImagePrompt
	script := fmt.Sprintf(`
        set _prompt to "%s"
        set _p to ""
        try
            set _p to POSIX path of (choose file of type {"public.image"} with prompt _prompt default location POSIX file "%s")
        on error errMsg number errNum
            if errNum is -128 then error number -128 -- user cancelled, propagate
            set _p to POSIX path of (choose file of type {"public.image"} with prompt _prompt)
        end try
        return _p
    `, escapeAppleScriptString(prompt), escapeAppleScriptString(cleanStart))

	// stdout only, stderr carries IMKClient noise
	cmd := exec.Command("osascript", "-e", script)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) == 0 {
			return "", ErrDialogCancelled
		}
		return "", fmt.Errorf("osascript: %v", err)
	}

	chosen := firstAbsoluteLine(string(out))
	if chosen == "" {
		return "", ErrDialogCancelled
	}
	return filepath.Clean(strings.ReplaceAll(chosen, "\r", "")), nil
}

func firstAbsoluteLine(s string) string {
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimSpace(ln)
		if strings.HasPrefix(ln, "/") {
			return ln
		}
	}
	return ""
}

func selectImageWindows(start string) (string, error) {
	escaped := escapePowerShellString(filepath.Clean(start))
	title := escapePowerShellString(lang.Active().Dialog.SelectImagePrompt)
	filter := escapePowerShellString(windowsImageFilter())
	script := fmt.Sprintf(`[System.Reflection.Assembly]::LoadWithPartialName('System.windows.forms') | Out-Null;
$dialog = New-Object System.Windows.Forms.OpenFileDialog;
$dialog.Title = '%s';
$dialog.InitialDirectory = '%s';
$dialog.Filter = '%s';
$dialog.Multiselect = $false;
if ($dialog.ShowDialog() -eq 'OK') { Write-Output $dialog.FileName }`, title, escaped, filter)

	cmd := exec.Command("powershell", "-NoProfile", "-Command", script)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) == 0 {
			return "", ErrDialogCancelled
		}
		return "", err
	}

	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", ErrDialogCancelled
	}
	return filepath.Clean(path), nil
}

func selectImageLinux(start string) (string, error) {
	title := lang.Active().Dialog.SelectImagePrompt
	patterns := strings.Join(imagePatterns, " ")
	candidates := [][]string{
		{"zenity", "--file-selection", "--title", title, "--filename", ensureTrailingSeparator(filepath.Clean(start)), "--file-filter", "Images | " + patterns},
		{"kdialog", "--getopenfilename", filepath.Clean(start), patterns + "|Images", "--title", title},
	}

	for _, args := range candidates {
		cmd := exec.Command(args[0], args[1:]...)
		out, err := cmd.Output()
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				continue
			}
			if exitErr, ok := err.(*exec.ExitError); ok {
				if exitErr.ExitCode() == 1 {
					return "", ErrDialogCancelled
				}
			}
			return "", err
		}

		path := strings.TrimSpace(string(out))
		if path == "" {
			return "", ErrDialogCancelled
		}
		return filepath.Clean(path), nil
	}

	return "", ErrDialogUnavailable
}

func windowsImageFilter() string {
	return "Images|" + strings.Join(imagePatterns, ";")
}

func escapeAppleScriptString(s string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "\"", "\\\"")
	return replacer.Replace(s)
}

func escapePowerShellString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func ensureTrailingSeparator(path string) string {
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		return path
	}
	return path + string(os.PathSeparator)
}
