package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "sistema-pericial/pkg/errors"
)

type fakeUsuarioRepoComLixeira struct {
	fakeUsuarioRepo
	removidos   []uint64
	restaurados []uint64
}

func (f *fakeUsuarioRepoComLixeira) SoftDelete(_ context.Context, id uint64) error {
	f.removidos = append(f.removidos, id)
	return nil
}

func (f *fakeUsuarioRepoComLixeira) Restore(_ context.Context, id uint64) error {
	f.restaurados = append(f.restaurados, id)
	return nil
}

func TestUsuarioSoftDelete_ProibeAutoRemocao(t *testing.T) {
	repo := &fakeUsuarioRepoComLixeira{}
	svc := NewUsuarioService(repo, zap.NewNop())

	err := svc.SoftDelete(context.Background(), 7, 7)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
	assert.Empty(t, repo.removidos)

	err = svc.SoftDelete(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7}, repo.removidos)
}

func TestUsuarioRestore(t *testing.T) {
	repo := &fakeUsuarioRepoComLixeira{}
	svc := NewUsuarioService(repo, zap.NewNop())

	require.NoError(t, svc.Restore(context.Background(), 7))
	assert.Equal(t, []uint64{7}, repo.restaurados)
}
