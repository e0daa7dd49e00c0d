package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/proffy-io/proffy-api/internal/dto"
	"github.com/proffy-io/proffy-api/internal/models"
	appErrors "github.com/proffy-io/proffy-api/pkg/errors"
)

type connectionRepoMock struct {
	created   []models.Connection
	createErr error
	total     int
	countErr  error
	lastCount models.ConnectionFilter
}

func (m *connectionRepoMock) Create(ctx context.Context, conn *models.Connection) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, *conn)
	return nil
}

func (m *connectionRepoMock) Count(ctx context.Context, filter models.ConnectionFilter) (int, error) {
	m.lastCount = filter
	return m.total, m.countErr
}

type tutorLookupMock struct {
	known map[string]bool
	err   error
	calls int
}

func (m *tutorLookupMock) Exists(ctx context.Context, id string) (bool, error) {
	m.calls++
	return m.known[id], m.err
}

func newTestConnectionService(repo *connectionRepoMock, tutors *tutorLookupMock) *ConnectionService {
	return NewConnectionService(repo, tutors, NewMetricsService(), validator.New(), zap.NewNop())
}

func TestConnectionServiceRecord(t *testing.T) {
	repo := &connectionRepoMock{}
	tutors := &tutorLookupMock{known: map[string]bool{"tutor-1": true}}
	svc := newTestConnectionService(repo, tutors)

	require.NoError(t, svc.Record(context.Background(), dto.CreateConnectionRequest{UserID: "tutor-1", Subject: " Biology "}))
	require.NoError(t, svc.Record(context.Background(), dto.CreateConnectionRequest{UserID: "tutor-1"}))

	require.Len(t, repo.created, 2)
	require.NotNil(t, repo.created[0].Subject)
	assert.Equal(t, "Biology", *repo.created[0].Subject)
	assert.Nil(t, repo.created[1].Subject)
}

func TestConnectionServiceRecordValidation(t *testing.T) {
	repo := &connectionRepoMock{}
	tutors := &tutorLookupMock{}
	svc := newTestConnectionService(repo, tutors)

	err := svc.Record(context.Background(), dto.CreateConnectionRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, tutors.calls)
}

func TestConnectionServiceRecordUnknownTutor(t *testing.T) {
	repo := &connectionRepoMock{}
	svc := newTestConnectionService(repo, &tutorLookupMock{known: map[string]bool{}})

	err := svc.Record(context.Background(), dto.CreateConnectionRequest{UserID: "ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, repo.created)
}

func TestConnectionServiceRecordStorageFailure(t *testing.T) {
	repo := &connectionRepoMock{createErr: errors.New("insert failed")}
	svc := newTestConnectionService(repo, &tutorLookupMock{known: map[string]bool{"tutor-1": true}})

	err := svc.Record(context.Background(), dto.CreateConnectionRequest{UserID: "tutor-1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConnection))
	assert.Equal(t, appErrors.ErrConnection.Message, appErrors.FromError(err).Message)

	svc = newTestConnectionService(&connectionRepoMock{}, &tutorLookupMock{err: errors.New("timeout")})
	err = svc.Record(context.Background(), dto.CreateConnectionRequest{UserID: "tutor-1"})
	assert.True(t, errors.Is(err, appErrors.ErrConnection))
}

func TestConnectionServiceCount(t *testing.T) {
	repo := &connectionRepoMock{total: 7}
	svc := newTestConnectionService(repo, &tutorLookupMock{})

	total, err := svc.Count(context.Background(), models.ConnectionFilter{UserID: "tutor-1", Subject: "Math"})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, models.ConnectionFilter{UserID: "tutor-1", Subject: "Math"}, repo.lastCount)

	repo.countErr = errors.New("boom")
	_, err = svc.Count(context.Background(), models.ConnectionFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
