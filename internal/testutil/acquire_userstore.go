package testutil

import (
	"context"
	"os"
	"path/filepath"

	"github.com/andrebq/doorman/userstore"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireUserStore opens a throwaway sqlite user store in a temp
// directory and returns it along with its cleanup function.
func AcquireUserStore(ctx context.Context, t TestLog) (*userstore.SQLite, func()) {
	dir, err := os.MkdirTemp("", "doorman-tests")
	if err != nil {
		t.Fatal(err)
	}
	store, err := userstore.OpenSQLite(ctx, filepath.Join(dir, "users.db"))
	if err != nil {
		t.Fatal(err)
	}
	return store, func() {
		err := store.Close()
		if err != nil {
			t.Log("unable to close user store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}
