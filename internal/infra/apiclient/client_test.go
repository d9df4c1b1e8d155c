package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
)

const base = "http://monitor.test/api"

func setup(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	c := New(base+"/", WithHTTPClient(&http.Client{Transport: transport}))
	return c, transport
}

func TestListUnits(t *testing.T) {
	c, mock := setup(t)
	mock.RegisterResponder(http.MethodGet, base+"/unidades/",
		httpmock.NewStringResponder(http.StatusOK, `[
			{"id":1,"nome_unidade":"Usina Norte","grupo_unidade":"G","id_unidade":"UN-01"},
			{"id":2,"nome_unidade":"Usina Sul","grupo_unidade":"G","id_unidade":"US-01"}
		]`))

	list, err := c.ListUnits(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Usina Norte", list[0].Name)
	assert.Equal(t, "US-01", list[1].ExternalID)
	assert.Equal(t, 1, mock.GetTotalCallCount())
}

func TestCreateFailureSendsBody(t *testing.T) {
	c, mock := setup(t)
	var sent map[string]any
	mock.RegisterResponder(http.MethodPost, base+"/falhas/",
		func(req *http.Request) (*http.Response, error) {
			raw, _ := io.ReadAll(req.Body)
			require.NoError(t, json.Unmarshal(raw, &sent))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			return httpmock.NewStringResponse(http.StatusCreated,
				`{"id":9,"falha_ocorrida":"queda","data_falha":"2024-05-03","ativa":true,"observacao":"","unidade":1}`), nil
		})

	f, err := c.CreateFailure(context.Background(), FailureInput{
		Description: "queda",
		Date:        failures.NewDate(2024, time.May, 3),
		UnitID:      1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), f.ID)
	assert.True(t, f.Active)
	assert.Equal(t, "2024-05-03", f.Date.String())

	assert.Equal(t, "2024-05-03", sent["data_falha"])
	assert.NotContains(t, sent, "ativa", "nil active is left to the service default")
}

func TestSetActivePatchesOnlyAtiva(t *testing.T) {
	c, mock := setup(t)
	mock.RegisterResponder(http.MethodPatch, base+"/falhas/4/",
		func(req *http.Request) (*http.Response, error) {
			raw, _ := io.ReadAll(req.Body)
			assert.JSONEq(t, `{"ativa":false}`, string(raw))
			return httpmock.NewStringResponse(http.StatusOK, `{"id":4,"ativa":false,"data_falha":"2024-05-01"}`), nil
		})

	f, err := c.SetActive(context.Background(), 4, false)
	require.NoError(t, err)
	assert.False(t, f.Active)
}

func TestListFailuresQuery(t *testing.T) {
	c, mock := setup(t)
	mock.RegisterResponderWithQuery(http.MethodGet, base+"/falhas/", "ativa=true&unidade=3",
		httpmock.NewStringResponder(http.StatusOK, `[]`))

	unit, active := int64(3), true
	list, err := c.ListFailures(context.Background(), failures.Filter{UnitID: &unit, Active: &active})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDashboardDetails(t *testing.T) {
	c, mock := setup(t)
	mock.RegisterResponderWithQuery(http.MethodGet, base+"/dashboard/falhas/",
		"mes=5&ano=2024&tipo=fechadas&page=2&page_size=10",
		httpmock.NewStringResponder(http.StatusOK,
			`{"data":[{"id":7,"data_falha":"2024-05-02","ativa":false,"unidade":1,"unidade_nome":"A"}],"page":2,"pageSize":10,"totalItems":11,"totalPages":2}`))

	p, err := dashboard.NewPeriod(5, 2024)
	require.NoError(t, err)
	page, err := c.DashboardDetails(context.Background(), p, dashboard.SubsetResolved, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "A", page.Data[0].UnitName)
}

func TestDashboardReport(t *testing.T) {
	c, mock := setup(t)
	mock.RegisterResponderWithQuery(http.MethodGet, base+"/dashboard/", "mes=5&ano=2024",
		httpmock.NewStringResponder(http.StatusOK,
			`{"periodo":{"mes":5,"ano":2024},"estatisticas":{"ativas":1,"fechadas":0,"total":1},
			  "ativas":[{"id":1,"data_falha":"2024-05-10","ativa":true,"unidade":2,"unidade_nome":"Unidade Desconhecida"}],
			  "fechadas":[],"todas":[{"id":1,"data_falha":"2024-05-10","ativa":true,"unidade":2,"unidade_nome":"Unidade Desconhecida"}]}`))

	p, _ := dashboard.NewPeriod(5, 2024)
	r, err := c.Dashboard(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, p, r.Period)
	assert.Equal(t, 1, r.Counts.Total)
	assert.Equal(t, dashboard.UnknownUnitName, r.All[0].UnitName)
}

func TestServiceError(t *testing.T) {
	c, mock := setup(t)
	mock.RegisterResponder(http.MethodPost, base+"/unidades/",
		httpmock.NewStringResponder(http.StatusBadRequest,
			`{"message":"validation failed","code":"validation_error","fields":[{"field":"nome_unidade","rule":"required"}]}`))
	mock.RegisterResponder(http.MethodGet, base+"/unidades/5/",
		httpmock.NewStringResponder(http.StatusNotFound, `{"message":"not found","code":"not_found"}`))
	mock.RegisterResponder(http.MethodDelete, base+"/unidades/6/",
		httpmock.NewStringResponder(http.StatusBadGateway, `upstream down`))

	_, err := c.CreateUnit(context.Background(), UnitInput{})
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, "validation_error", se.Code)
	require.Len(t, se.Fields, 1)
	assert.Equal(t, "nome_unidade", se.Fields[0].Field)
	assert.False(t, IsConnectivity(err))

	_, err = c.GetUnit(context.Background(), 5)
	assert.True(t, IsNotFound(err))

	_, err = c.DeleteUnit(context.Background(), 6)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "upstream down", se.Message)
	assert.Contains(t, err.Error(), "502")
}

func TestConnectivityError(t *testing.T) {
	c, mock := setup(t)
	boom := errors.New("connection refused")
	mock.RegisterResponder(http.MethodGet, base+"/menu/", httpmock.NewErrorResponder(boom))

	_, err := c.Menu(context.Background())
	require.Error(t, err)
	assert.True(t, IsConnectivity(err))
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsNotFound(err))
}

func TestMenu(t *testing.T) {
	c, mock := setup(t)
	mock.RegisterResponder(http.MethodGet, base+"/menu/",
		httpmock.NewStringResponder(http.StatusOK,
			`[{"kind":"leaf","title":"Início","icon":"home","path":"/"},
			  {"kind":"group","title":"Falhas","icon":"alert","items":[{"kind":"leaf","title":"Listagem de Falhas","icon":"list","path":"/listagem-falhas"}]}]`))

	items, err := c.Menu(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "/", items[0].Path)
	require.Len(t, items[1].Items, 1)
	assert.Equal(t, "/listagem-falhas", items[1].Items[0].Path)
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
	assert.Equal(t, "http://x/api", New("http://x/api///").BaseURL())
}
