package main

import (
	"bytes"
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

	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/infra/apiclient"
)

const server = "http://monitor.test/api"

func execute(t *testing.T, mock *httpmock.MockTransport, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := newRootCommand(apiclient.WithHTTPClient(&http.Client{Transport: mock}))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--server", server, "--no-color"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

const unitsJSON = `[{"id":1,"nome_unidade":"Usina Norte","grupo_unidade":"G","id_unidade":"UN-01"}]`

const failuresJSON = `[
	{"id":1,"falha_ocorrida":"queda","data_falha":"2024-05-02","ativa":false,"unidade":1},
	{"id":2,"falha_ocorrida":"sem sinal","data_falha":"2024-05-10","ativa":true,"unidade":1},
	{"id":3,"falha_ocorrida":"alarme","data_falha":"2024-05-05","ativa":true,"unidade":9},
	{"id":4,"falha_ocorrida":"junho","data_falha":"2024-06-01","ativa":true,"unidade":1}
]`

func TestDashboard(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, server+"/unidades/", httpmock.NewStringResponder(http.StatusOK, unitsJSON))
	mock.RegisterResponder(http.MethodGet, server+"/falhas/", httpmock.NewStringResponder(http.StatusOK, failuresJSON))

	out, err := execute(t, mock, "dashboard", "--mes", "5", "--ano", "2024")
	require.NoError(t, err)

	assert.Contains(t, out, "Dashboard 5/2024")
	assert.Contains(t, out, "Ativas: 2  Fechadas: 1  Total: 3")
	assert.Contains(t, out, "Unidade Desconhecida")
	assert.NotContains(t, out, "junho")
	assert.Contains(t, out, "Página 1/1, 3 itens")

	// newest first
	assert.Less(t, bytes.Index([]byte(out), []byte("2024-05-10")), bytes.Index([]byte(out), []byte("2024-05-05")))
	assert.Less(t, bytes.Index([]byte(out), []byte("2024-05-05")), bytes.Index([]byte(out), []byte("2024-05-02")))
}

func TestDashboardSurvivesFailedFetch(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, server+"/unidades/", httpmock.NewErrorResponder(errors.New("connection refused")))
	mock.RegisterResponder(http.MethodGet, server+"/falhas/", httpmock.NewStringResponder(http.StatusOK, failuresJSON))

	out, err := execute(t, mock, "dashboard", "--mes", "5", "--ano", "2024", "--tipo", "ativas")
	require.NoError(t, err)
	assert.Contains(t, out, "could not load units")
	assert.Contains(t, out, "Ativas: 0  Fechadas: 0  Total: 0")
	assert.Contains(t, out, "Nenhuma falha encontrada.")
	assert.NotContains(t, out, "Unidade Desconhecida")
}

func TestDashboardEmptyWhenFailuresFetchFails(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, server+"/unidades/", httpmock.NewStringResponder(http.StatusOK, unitsJSON))
	mock.RegisterResponder(http.MethodGet, server+"/falhas/", httpmock.NewStringResponder(http.StatusServiceUnavailable, `{"message":"db down","code":"internal_error"}`))

	out, err := execute(t, mock, "dashboard", "--mes", "5", "--ano", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "could not load failures: 503 internal_error: db down")
	assert.Contains(t, out, "Total: 0")
	assert.NotContains(t, out, "could not load units")
}

func TestDashboardBothFetchesFail(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, server+"/unidades/", httpmock.NewStringResponder(http.StatusInternalServerError, `{"message":"boom","code":"internal_error"}`))
	mock.RegisterResponder(http.MethodGet, server+"/falhas/", httpmock.NewErrorResponder(errors.New("timeout")))

	out, err := execute(t, mock, "dashboard", "--mes", "5", "--ano", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "could not load units: 500 internal_error: boom")
	assert.Contains(t, out, "could not load failures: cannot reach the service")
	assert.Contains(t, out, "Total: 0")
	assert.Contains(t, out, "Nenhuma falha encontrada.")
}

func TestDashboardRejectsBadInput(t *testing.T) {
	mock := httpmock.NewMockTransport()

	_, err := execute(t, mock, "dashboard", "--mes", "13", "--ano", "2024")
	require.Error(t, err)

	_, err = execute(t, mock, "dashboard", "--mes", "5", "--ano", "2024", "--tipo", "abertas")
	require.Error(t, err)

	_, err = execute(t, mock, "dashboard", "--mes", "5", "--ano", "2024", "--page-size", "37")
	assert.ErrorContains(t, err, "invalid page size 37")
	assert.Zero(t, mock.GetTotalCallCount())
}

func TestUnitsList(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, server+"/unidades/", httpmock.NewStringResponder(http.StatusOK, unitsJSON))

	out, err := execute(t, mock, "unidades", "listar")
	require.NoError(t, err)
	assert.Contains(t, out, "Usina Norte")
	assert.Contains(t, out, "UN-01")
}

func TestUnitsEditKeepsUnsetFields(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, server+"/unidades/1/",
		httpmock.NewStringResponder(http.StatusOK, `{"id":1,"nome_unidade":"Usina Norte","grupo_unidade":"G","id_unidade":"UN-01","tecnico_unidade":"Ana"}`))
	var sent string
	mock.RegisterResponder(http.MethodPut, server+"/unidades/1/", func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		sent = string(raw)
		return httpmock.NewStringResponse(http.StatusOK, `{"id":1,"nome_unidade":"Usina Sul"}`), nil
	})

	out, err := execute(t, mock, "unidades", "editar", "1", "--nome", "Usina Sul")
	require.NoError(t, err)
	assert.Contains(t, out, "unidade 1 atualizada: Usina Sul")
	assert.JSONEq(t, `{"nome_unidade":"Usina Sul","grupo_unidade":"G","id_unidade":"UN-01","tecnico_unidade":"Ana"}`, sent)
}

func TestUnitsRemove(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodDelete, server+"/unidades/1/",
		httpmock.NewStringResponder(http.StatusOK, `{"id":1,"politica":"cascade","falhas_removidas":3}`))

	out, err := execute(t, mock, "unidades", "remover", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "unidade 1 removida (cascade, 3 falhas removidas)")

	_, err = execute(t, mock, "unidades", "remover", "abc")
	assert.EqualError(t, err, `invalid id "abc"`)
}

func TestUnitsAddRejected(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodPost, server+"/unidades/",
		httpmock.NewStringResponder(http.StatusConflict, `{"message":"id_unidade already in use","code":"duplicate_id_unidade"}`))

	_, err := execute(t, mock, "unidades", "adicionar", "--nome", "A", "--grupo", "G", "--id-unidade", "UN-01")
	require.Error(t, err)
	assert.Equal(t, "409 duplicate_id_unidade: id_unidade already in use", describe(err))
}

func TestFailuresListFiltersUnit(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponderWithQuery(http.MethodGet, server+"/falhas/detalhadas/", "encerradas=true",
		httpmock.NewStringResponder(http.StatusOK, `[
			{"id":2,"falha_ocorrida":"sem sinal","data_falha":"2024-05-10","ativa":true,"unidade":1,"unidade_nome":"Usina Norte"},
			{"id":3,"falha_ocorrida":"alarme","data_falha":"2024-05-05","ativa":false,"unidade":9,"unidade_nome":"Unidade Desconhecida"}
		]`))

	out, err := execute(t, mock, "falhas", "listar", "--encerradas", "--unidade", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "sem sinal")
	assert.NotContains(t, out, "alarme")
}

func TestFailuresAddAndToggle(t *testing.T) {
	mock := httpmock.NewMockTransport()
	var created string
	mock.RegisterResponder(http.MethodPost, server+"/falhas/", func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		created = string(raw)
		return httpmock.NewStringResponse(http.StatusCreated,
			`{"id":7,"falha_ocorrida":"queda","data_falha":"2024-05-03","ativa":false,"unidade":1}`), nil
	})
	mock.RegisterResponder(http.MethodPatch, server+"/falhas/7/",
		httpmock.NewStringResponder(http.StatusOK, `{"id":7,"ativa":true,"data_falha":"2024-05-03"}`))

	out, err := execute(t, mock, "falhas", "adicionar", "--unidade", "1", "--descricao", "queda", "--data", "2024-05-03", "--resolvida")
	require.NoError(t, err)
	assert.Contains(t, out, "falha 7 registrada em 2024-05-03 (Resolvida)")
	assert.JSONEq(t, `{"falha_ocorrida":"queda","data_falha":"2024-05-03","ativa":false,"observacao":"","unidade":1}`, created)

	out, err = execute(t, mock, "falhas", "reabrir", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "falha 7: Ativa")

	_, err = execute(t, mock, "falhas", "adicionar", "--unidade", "1", "--descricao", "x", "--data", "03/05/2024")
	require.Error(t, err)
}

func TestFailuresAddDefaultsToToday(t *testing.T) {
	mock := httpmock.NewMockTransport()
	var sent map[string]any
	mock.RegisterResponder(http.MethodPost, server+"/falhas/", func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		require.NoError(t, json.Unmarshal(raw, &sent))
		return httpmock.NewStringResponse(http.StatusCreated,
			`{"id":8,"falha_ocorrida":"queda","data_falha":"2024-05-03","ativa":true,"unidade":1}`), nil
	})

	today := failures.DateOf(time.Now()).String()
	_, err := execute(t, mock, "falhas", "adicionar", "--unidade", "1", "--descricao", "queda")
	require.NoError(t, err)
	assert.Equal(t, today, sent["data_falha"])
	assert.NotContains(t, sent, "ativa")
}

func TestMenu(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, server+"/menu/", httpmock.NewStringResponder(http.StatusOK,
		`[{"kind":"leaf","title":"Dashboard","icon":"chart","path":"/dashboard"},
		  {"kind":"group","title":"Unidades","icon":"building","items":[{"kind":"leaf","title":"Visualizar Unidades","icon":"eye","path":"/visualizar-unidades"}]}]`))

	out, err := execute(t, mock, "menu")
	require.NoError(t, err)
	assert.Contains(t, out, "Unidades\n")
	assert.Regexp(t, `\n  Visualizar Unidades\s+/visualizar-unidades\n`, out)
}

func TestDescribeConnectivity(t *testing.T) {
	err := &apiclient.ConnectivityError{Op: "GET /menu/", Err: errors.New("dial tcp: refused")}
	assert.Equal(t, "cannot reach the service (dial tcp: refused)", describe(err))
	assert.Equal(t, "plain", describe(errors.New("plain")))
}
