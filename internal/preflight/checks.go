package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"framescribe/internal/config"
	"framescribe/internal/store"
	"framescribe/internal/translate"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckExportDirectory passes when the export directory is usable or can be
// created under its nearest existing ancestor.
func CheckExportDirectory(path string) Result {
	const name = "Export directory"
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(path)
	for parent != filepath.Dir(parent) {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		parent = filepath.Dir(parent)
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first export)", path)}
}

// CheckDatabase opens the document database, verifying the schema and lock.
func CheckDatabase(cfg *config.Config) Result {
	const name = "Document database"
	st, err := store.Open(cfg)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrLocked):
			return Result{Name: name, Detail: "locked by another framescribe process"}
		case errors.Is(err, store.ErrSchemaMismatch):
			return Result{Name: name, Detail: err.Error()}
		default:
			return Result{Name: name, Detail: fmt.Sprintf("open failed (%v)", err)}
		}
	}
	defer st.Close()
	return Result{Name: name, Passed: true, Detail: st.Path()}
}

// CheckTranslation verifies that the configured backend is usable: the
// program is on PATH, or the LLM endpoint has a key and model.
func CheckTranslation(cfg config.Translation) Result {
	const name = "Translation backend"
	tr, err := translate.New(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := tr.Available(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if cfg.TargetLanguage == "" {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (no default target language)", tr.Describe())}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (target %s)", tr.Describe(), cfg.TargetLanguage)}
}
