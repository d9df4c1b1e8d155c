package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/unit-monitor/internal/application"
	"github.com/bryanwahyu/unit-monitor/internal/domain/ai"
	domain "github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
	"github.com/bryanwahyu/unit-monitor/internal/infra/db/memory"
)

var now = time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)

type fakeStore struct {
	mu   sync.Mutex
	keys []string
	body map[string][]byte
	err  error
}

func (f *fakeStore) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.body == nil {
		f.body = map[string][]byte{}
	}
	f.keys = append(f.keys, key)
	f.body[key] = body
	return "http://minio.local/reports/" + key, nil
}

type fakeAI struct {
	calls int
	text  string
	err   error
}

func (f *fakeAI) Digest(ctx context.Context, r domain.Report) (string, error) {
	f.calls++
	return f.text, f.err
}

func seeded(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	u := &units.Unit{Name: "A", Group: "G", ExternalID: "A-1"}
	require.NoError(t, store.Units().Create(ctx, u))

	for _, f := range []struct {
		unit   units.ID
		date   string
		active bool
	}{
		{u.ID, "2024-05-10", true},
		{u.ID, "2024-05-02", false},
		{u.ID, "2024-06-01", true},
		{99, "2024-05-05", true},
	} {
		d, err := failures.ParseDate(f.date)
		require.NoError(t, err)
		require.NoError(t, store.Failures().Create(ctx, &failures.Failure{UnitID: f.unit, Date: d, Active: f.active}))
	}

	return &Service{
		Units:    store.Units(),
		Failures: store.Failures(),
		Clock:    application.FixedClock(now),
	}
}

func may2024(t *testing.T) domain.Period {
	p, err := domain.NewPeriod(5, 2024)
	require.NoError(t, err)
	return p
}

func TestService_Report(t *testing.T) {
	svc := seeded(t)

	r, err := svc.Report(context.Background(), may2024(t))
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{Active: 2, Resolved: 1, Total: 3}, r.Counts)
	assert.Equal(t, "2024-05-10", r.All[0].Date.String())
	assert.Equal(t, domain.UnknownUnitName, r.All[1].UnitName)
	assert.Equal(t, svc.CurrentPeriod(), may2024(t))
}

type brokenUnits struct{ units.Repository }

func (brokenUnits) List(context.Context) ([]*units.Unit, error) { return nil, errors.New("db down") }

func TestService_ReportFailsWhenAFetchFails(t *testing.T) {
	svc := seeded(t)
	svc.Units = brokenUnits{svc.Units}

	_, err := svc.Report(context.Background(), may2024(t))
	assert.ErrorContains(t, err, "db down")
}

func TestService_Details(t *testing.T) {
	svc := seeded(t)

	page, err := svc.Details(context.Background(), may2024(t), domain.SubsetActive, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestService_Export(t *testing.T) {
	svc := seeded(t)

	_, err := svc.Export(context.Background(), may2024(t))
	assert.ErrorIs(t, err, domain.ErrExportDisabled)

	store := &fakeStore{}
	svc.Artifacts = store
	res, err := svc.Export(context.Background(), may2024(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, "relatorios/2024-05/"))
	assert.True(t, strings.HasSuffix(res.Key, ".json"))
	assert.Equal(t, "http://minio.local/reports/"+res.Key, res.URL)
	assert.Equal(t, 3, res.Counts.Total)

	var stored domain.Report
	require.NoError(t, json.Unmarshal(store.body[res.Key], &stored))
	assert.Equal(t, 3, stored.Counts.Total)
	assert.Len(t, stored.All, 3)

	store.err = errors.New("bucket missing")
	_, err = svc.Export(context.Background(), may2024(t))
	assert.ErrorContains(t, err, "bucket missing")
}

func TestService_Digest(t *testing.T) {
	svc := seeded(t)

	_, err := svc.Digest(context.Background(), may2024(t))
	assert.ErrorIs(t, err, domain.ErrDigestDisabled)

	client := &fakeAI{text: "Três falhas em maio."}
	svc.AI = client
	res, err := svc.Digest(context.Background(), may2024(t))
	require.NoError(t, err)
	assert.Equal(t, "Três falhas em maio.", res.Text)
	assert.Equal(t, 1, client.calls)

	empty, err := domain.NewPeriod(1, 2020)
	require.NoError(t, err)
	res, err = svc.Digest(context.Background(), empty)
	require.NoError(t, err)
	assert.Contains(t, res.Text, "Nenhuma falha")
	assert.Equal(t, 1, client.calls)

	client.err = ai.ErrQuotaExceeded
	_, err = svc.Digest(context.Background(), may2024(t))
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}
