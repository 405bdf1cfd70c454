package composables

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseTx_WithoutPool(t *testing.T) {
	_, err := UseTx(context.Background())
	require.ErrorIs(t, err, ErrNoPool)

	err = InTx(context.Background(), func(context.Context) error {
		t.Fatal("fn must not run without a pool")
		return nil
	})
	require.ErrorIs(t, err, ErrNoPool)
}

func TestUseLogger(t *testing.T) {
	_, err := UseLogger(context.Background())
	require.ErrorIs(t, err, ErrNoLogger)

	entry := logrus.NewEntry(logrus.New()).WithField("import_id", "x")
	got, err := UseLogger(WithLogger(context.Background(), entry))
	require.NoError(t, err)
	assert.Equal(t, "x", got.Data["import_id"])
}

func TestUseIP(t *testing.T) {
	_, ok := UseIP(context.Background())
	assert.False(t, ok)

	req := httptest.NewRequest("GET", "/", nil)
	ctx := WithParams(context.Background(), &Params{IP: "10.0.0.7", Request: req})
	ip, ok := UseIP(ctx)
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.7", ip)
}
