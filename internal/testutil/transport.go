package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// BaseURL is the career site root used by tests.
const BaseURL = "https://ow.test/career"

type scriptedResponse struct {
	status int
	body   string
	err    error
}

// ScriptedTransport serves canned career pages by URL. Unknown URLs answer
// 404, the probe-miss status. It is mutex-guarded so concurrent refresh
// sweeps can share it.
type ScriptedTransport struct {
	mu        sync.Mutex
	responses map[string]scriptedResponse
	calls     []string
}

func NewScriptedTransport() *ScriptedTransport {
	return &ScriptedTransport{responses: map[string]scriptedResponse{}}
}

func (t *ScriptedTransport) Serve(url, body string) {
	t.ServeStatus(url, http.StatusOK, body)
}

func (t *ScriptedTransport) ServeStatus(url string, status int, body string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.responses[url] = scriptedResponse{status: status, body: body}
}

func (t *ScriptedTransport) Fail(url string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.responses[url] = scriptedResponse{err: err}
}

func (t *ScriptedTransport) Remove(url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.responses, url)
}

func (t *ScriptedTransport) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

func (t *ScriptedTransport) Calls() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.calls...)
}

func (t *ScriptedTransport) Get(_ context.Context, url string) (int, []byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, url)
	r, ok := t.responses[url]
	if !ok {
		return http.StatusNotFound, []byte("not found"), nil
	}
	if r.err != nil {
		return 0, nil, r.err
	}
	return r.status, []byte(r.body), nil
}

// ProfilePage renders a minimal but valid career page with the given level
// and competitive rank.
func ProfilePage(level, rank int) string {
	return fmt.Sprintf(`<html><body>
		<img class="player-portrait" src="https://cdn.test/portrait.png">
		<div class="player-level"><div class="u-vertical-center">%d</div></div>
		<div class="competitive-rank">
			<img src="https://cdn.test/rank.png">
			<div class="u-align-center">%d</div>
		</div>
		<div id="quickplay">
			<table class="data-table">
				<thead><tr><th><span class="stat-title">Game</span></th></tr></thead>
				<tbody><tr><td>Games Won</td><td>212</td></tr></tbody>
			</table>
		</div>
	</body></html>`, level, rank)
}
