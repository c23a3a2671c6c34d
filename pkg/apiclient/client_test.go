package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Talts01/SocialPizza/internal/board"
	"github.com/Talts01/SocialPizza/internal/models"
	"github.com/Talts01/SocialPizza/internal/policy"
)

// testServer is a minimal fake of the HTTP API that records every call.
type testServer struct {
	t     *testing.T
	mux   *http.ServeMux
	calls map[string]int // "METHOD path" -> count
	last  []byte         // body of the most recent request
}

func newTestServer(t *testing.T) (*testServer, *httptest.Server) {
	ts := &testServer{t: t, mux: http.NewServeMux(), calls: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.calls[r.Method+" "+r.URL.Path]++
		body, _ := io.ReadAll(r.Body)
		ts.last = body
		r.Body = io.NopCloser(bytes.NewReader(body))
		ts.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return ts, srv
}

func (ts *testServer) respond(w http.ResponseWriter, status int, data any, errText string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"success": errText == ""}
	if data != nil {
		body["data"] = data
	}
	if errText != "" {
		body["error"] = errText
	}
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	c, err := New(srv.URL)
	require.NoError(t, err)
	return c
}

func TestLoginKeepsSessionCookie(t *testing.T) {
	ts, srv := newTestServer(t)
	ts.mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sp_session", Value: "tok", Path: "/"})
		ts.respond(w, http.StatusOK, models.UserPublic{ID: 1, Email: "a@b.it", Role: models.RoleUser}, "")
	})
	ts.mux.HandleFunc("GET /api/auth/session", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("sp_session")
		if err != nil || cookie.Value != "tok" {
			ts.respond(w, http.StatusUnauthorized, nil, "not authenticated")
			return
		}
		ts.respond(w, http.StatusOK, models.UserPublic{ID: 1, Email: "a@b.it", Role: models.RoleUser}, "")
	})

	c := newTestClient(t, srv)
	user, err := c.Login(context.Background(), "a@b.it", "secret")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)

	// the cookie from login rides along automatically
	again, err := c.Session(context.Background())
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)
}

func TestJoinConfirmThenMutate(t *testing.T) {
	ts, srv := newTestServer(t)
	ts.mux.HandleFunc("POST /api/events/7/join", func(w http.ResponseWriter, r *http.Request) {
		ts.respond(w, http.StatusOK, models.Participation{EventID: 7, UserID: 1}, "")
	})

	c := newTestClient(t, srv)
	e := models.Event{ID: 7, Status: models.StatusApproved, MaxParticipants: 8, ParticipantCount: 3}

	require.NoError(t, c.Join(context.Background(), e))
	require.Equal(t, 1, ts.calls["POST /api/events/7/join"])
	require.True(t, c.Board().IsJoined(7))
	require.Len(t, c.Board().Joined, 1)
	require.Equal(t, 4, c.Board().Joined[0].ParticipantCount)
}

func TestJoinRejectedLeavesBoardUntouched(t *testing.T) {
	ts, srv := newTestServer(t)
	ts.mux.HandleFunc("POST /api/events/7/join", func(w http.ResponseWriter, r *http.Request) {
		ts.respond(w, http.StatusBadRequest, nil, "event is sold out")
	})

	c := newTestClient(t, srv)
	e := models.Event{ID: 7, Status: models.StatusApproved}

	err := c.Join(context.Background(), e)
	require.Error(t, err)

	// the server's error text comes through verbatim
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "event is sold out", apiErr.Message)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)

	require.False(t, c.Board().IsJoined(7))
	require.Empty(t, c.Board().Joined)
}

func TestSubmitDecisionRejection(t *testing.T) {
	ts, srv := newTestServer(t)
	ts.mux.HandleFunc("PATCH /api/events/9/decision", func(w http.ResponseWriter, r *http.Request) {
		ts.respond(w, http.StatusOK, models.Event{ID: 9, Status: models.StatusRejected}, "")
	})

	c := newTestClient(t, srv)
	c.Board().Install(board.ListPending, c.Board().NextFetch(),
		[]models.Event{{ID: 9, Status: models.StatusPending}})

	e, err := c.SubmitDecision(context.Background(), 9, models.StatusRejected, "troppo tardi")
	require.NoError(t, err)
	require.Equal(t, models.StatusRejected, e.Status)

	// exactly one PATCH, carrying the verdict and the comment
	require.Equal(t, 1, ts.calls["PATCH /api/events/9/decision"])
	var sent struct {
		Decision string `json:"decision"`
		Comment  string `json:"comment"`
	}
	require.NoError(t, json.Unmarshal(ts.last, &sent))
	require.Equal(t, "REJECTED", sent.Decision)
	require.Equal(t, "troppo tardi", sent.Comment)

	// the event left the pending list
	require.Empty(t, c.Board().Pending)
}

func TestSubmitDecisionInvalidMakesNoRequest(t *testing.T) {
	ts, srv := newTestServer(t)

	c := newTestClient(t, srv)
	_, err := c.SubmitDecision(context.Background(), 9, models.StatusRejected, "   ")
	require.ErrorIs(t, err, policy.ErrCommentRequired)

	_, err = c.SubmitDecision(context.Background(), 9, models.StatusPending, "x")
	require.ErrorIs(t, err, policy.ErrInvalidVerdict)

	require.Empty(t, ts.calls)
}

func TestDeleteEventDropsFromEveryList(t *testing.T) {
	ts, srv := newTestServer(t)
	ts.mux.HandleFunc("DELETE /api/events/3", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	c := newTestClient(t, srv)
	b := c.Board()
	e := models.Event{ID: 3, Status: models.StatusApproved}
	b.Install(board.ListPublic, b.NextFetch(), []models.Event{e, {ID: 4, Status: models.StatusApproved}})
	b.Install(board.ListMine, b.NextFetch(), []models.Event{e})
	b.ApplyJoin(e)

	require.NoError(t, c.DeleteEvent(context.Background(), 3))

	require.Len(t, b.Public, 1)
	require.Empty(t, b.Mine)
	require.Empty(t, b.Joined)
	require.False(t, b.IsJoined(3))
}

func TestRefreshInstallsList(t *testing.T) {
	ts, srv := newTestServer(t)
	ts.mux.HandleFunc("GET /api/events/approved", func(w http.ResponseWriter, r *http.Request) {
		ts.respond(w, http.StatusOK, []models.Event{
			{ID: 1, Status: models.StatusApproved},
			{ID: 2, Status: models.StatusApproved},
		}, "")
	})

	c := newTestClient(t, srv)
	events, err := c.Refresh(context.Background(), board.ListPublic)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Len(t, c.Board().Public, 2)
}

func TestWithdraw(t *testing.T) {
	ts, srv := newTestServer(t)
	ts.mux.HandleFunc("DELETE /api/events/5/withdraw", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	c := newTestClient(t, srv)
	b := c.Board()
	b.Install(board.ListMine, b.NextFetch(), []models.Event{{ID: 5, Status: models.StatusPending}})

	require.NoError(t, c.Withdraw(context.Background(), 5))
	require.Empty(t, b.Mine)
}
