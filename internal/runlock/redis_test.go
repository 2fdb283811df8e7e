package runlock

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	abs, err := filepath.Abs("file-local/merged_data.xlsx")
	require.NoError(t, err)

	require.Equal(t, keyPrefix+abs, Key("./file-local/merged_data.xlsx"))
	require.Equal(t, Key("file-local/../file-local/merged_data.xlsx"), Key("file-local/merged_data.xlsx"))
}

func TestReleaseWithoutAcquire(t *testing.T) {
	l := New(nil, "out.xlsx", time.Minute)
	require.NoError(t, l.Release(context.Background()))
}
