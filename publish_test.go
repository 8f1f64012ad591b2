// Copyright 2026 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package traject

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/traject/logging"
	"rivaas.dev/traject/tree"
)

func TestPublish(t *testing.T) {
	t.Parallel()

	app, _ := newSiteApp(t)

	tests := []struct {
		name   string
		method string
		target string
		want   string
	}{
		{name: "container", method: http.MethodGet, target: "/A", want: "/A"},
		{name: "subpath", method: http.MethodGet, target: "/A/a", want: "/A/a"},
		{name: "escaped segment", method: http.MethodGet, target: "/B/x%20y", want: "/B/x%20y"},
		{name: "named view", method: http.MethodPost, target: "/A/a/edit", want: "edited"},
		{name: "parameters", method: http.MethodGet, target: "/path?a=foo&b=bar", want: "/path?a=foo&b=bar"},
		{name: "default parameters", method: http.MethodGet, target: "/path", want: "/path"},
		{name: "parameter order", method: http.MethodGet, target: "/path?b=2&a=1", want: "/path?a=1&b=2"},
		{name: "backtrack to variable", method: http.MethodGet, target: "/latest", want: "/latest"},
		{name: "mounted root", method: http.MethodGet, target: "/wikis/main", want: "wiki main"},
		{name: "mounted page", method: http.MethodGet, target: "/wikis/dev/pages/home", want: "/wikis/dev/pages/home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, _, err := publishPath(t, app, tt.method, tt.target)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.Status)
			assert.Equal(t, tt.want, string(resp.Body))
		})
	}
}

func TestPublish_NotFound(t *testing.T) {
	t.Parallel()

	app, _ := newSiteApp(t)

	tests := []struct {
		name       string
		target     string
		unconsumed []string
	}{
		{name: "unknown container", target: "/Z", unconsumed: []string{"Z"}},
		{name: "too many segments", target: "/A/a/b/c", unconsumed: []string{"b", "c"}},
		{name: "unknown view", target: "/A/nope/x", unconsumed: []string{"x"}},
		{name: "no root model", target: "/", unconsumed: nil},
		{name: "unreachable mount", target: "/wikis/other/pages/home", unconsumed: []string{"wikis", "other", "pages", "home"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := publishPath(t, app, http.MethodGet, tt.target)
			require.ErrorIs(t, err, ErrNotFound)

			var nf *NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, tt.unconsumed, nf.Unconsumed)
		})
	}
}

func TestPublish_ViewSelection(t *testing.T) {
	t.Parallel()

	app, _ := newSiteApp(t)

	_, _, err := publishPath(t, app, http.MethodGet, "/A/a/edit")
	require.ErrorIs(t, err, ErrMethodNotAllowed)

	_, _, err = publishPath(t, app, http.MethodDelete, "/A/a")
	require.ErrorIs(t, err, ErrMethodNotAllowed)

	_, _, err = publishPath(t, app, http.MethodGet, "/A/a/missing")
	require.ErrorIs(t, err, ErrNotFound)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"missing"}, nf.Unconsumed)
}

func TestPublish_RequestState(t *testing.T) {
	t.Parallel()

	app, w := newSiteApp(t)

	_, req, err := publishPath(t, app, http.MethodGet, "/wikis/main/pages/home")
	require.NoError(t, err)

	mounts := req.Mounts()
	require.Len(t, mounts, 2)
	assert.Same(t, app, mounts[0].App())
	assert.Same(t, w, mounts[1].App())
	assert.Same(t, mounts[0], mounts[1].Parent())
	assert.Nil(t, mounts[0].Parent())
	assert.Equal(t, map[string]any{"wiki_id": "main"}, mounts[1].Variables())
	assert.Empty(t, req.Unconsumed())
	assert.Empty(t, req.ViewName())
	assert.Same(t, mounts[1].Lookup(), req.Lookup())
	assert.Equal(t, "Mount(wiki)", mounts[1].String())

	_, req, err = publishPath(t, app, http.MethodPost, "/B/b/edit")
	require.NoError(t, err)
	assert.Equal(t, "edit", req.ViewName())
	assert.Len(t, req.Mounts(), 1)
}

func TestPublish_Permission(t *testing.T) {
	t.Parallel()

	app, _ := newSiteApp(t, WithPermissionChecker(func(req *Request, _, permission any) bool {
		return req.HTTP().Header.Get("X-Role") == permission
	}))

	_, _, err := publishPath(t, app, http.MethodGet, "/A/secret")
	require.ErrorIs(t, err, ErrForbidden)

	req, err := NewRequest(newHTTPRequest(http.MethodGet, "/A/secret", map[string]string{"X-Role": "admin"}))
	require.NoError(t, err)
	resp, err := Publish(req, app.Mounted(nil))
	require.NoError(t, err)
	assert.Equal(t, "secret", string(resp.Body))

	open, _ := newSiteApp(t)
	resp, _, err = publishPath(t, open, http.MethodGet, "/A/secret")
	require.NoError(t, err, "without a checker every view is allowed")
	assert.Equal(t, "secret", string(resp.Body))
}

func TestPublish_CustomPredicate(t *testing.T) {
	t.Parallel()

	app := New("formats")
	require.NoError(t, app.AddPredicate(RequestPredicate("format", "html", 20, func(req *Request) string {
		if f := req.Query().Get("format"); f != "" {
			return f
		}
		return "html"
	}, ErrNotFound)))
	require.NoError(t, app.AddRoot(Route{
		Model:   documentType,
		Factory: func(tree.Args) (any, bool) { return &document{}, true },
	}))
	require.NoError(t, app.AddView(documentType, textView("<p>doc</p>")))
	require.NoError(t, app.AddView(documentType, View{Func: func(*Request, any) (any, error) {
		return map[string]string{"doc": "json"}, nil
	}}, WithPredicate("format", "json")))
	app.MustCommit()

	resp, _, err := publishPath(t, app, http.MethodGet, "/")
	require.NoError(t, err)
	assert.Equal(t, "<p>doc</p>", string(resp.Body))

	resp, _, err = publishPath(t, app, http.MethodGet, "/?format=json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"doc":"json"}`, string(resp.Body))
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

	_, _, err = publishPath(t, app, http.MethodGet, "/?format=xml")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPublish_LogsBacktracking(t *testing.T) {
	t.Parallel()

	th := logging.NewTestHelper(t)
	app, _ := newSiteApp(t, WithLogger(th.Slog()))

	entries, err := th.Logs()
	require.NoError(t, err)
	var committed []string
	for _, e := range entries {
		if e.Message == "app committed" {
			committed = append(committed, e.Attrs["app"].(string))
		}
	}
	assert.Equal(t, []string{"wiki", "site"}, committed, "mounted apps commit first")

	_, _, err = publishPath(t, app, http.MethodGet, "/latest")
	require.NoError(t, err)
	entry, ok := th.Find("path resolved after backtracking")
	require.True(t, ok)
	assert.Equal(t, "/{container_id}", entry.Attrs["route"])
	assert.InDelta(t, 2, entry.Attrs["attempts"], 0)

	_, _, err = publishPath(t, app, http.MethodGet, "/nothing/here/at/all")
	require.Error(t, err)
	assert.True(t, th.ContainsLog("path not resolved"))
}
