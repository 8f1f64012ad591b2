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

package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"rivaas.dev/traject/config/codec"
)

type FileTestSuite struct {
	suite.Suite
	dir string
}

func TestFileTestSuite(t *testing.T) {
	suite.Run(t, new(FileTestSuite))
}

func (s *FileTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *FileTestSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *FileTestSuite) TestLoad_YAML() {
	path := s.write("trajectd.yaml", "server:\n  addr: \":9090\"\nlog:\n  level: debug\n")

	conf, err := NewFile(path, codec.YAMLCodec{}).Load(context.Background())
	s.Require().NoError(err)

	server, ok := conf["server"].(map[string]any)
	s.Require().True(ok)
	s.Equal(":9090", server["addr"])
}

func (s *FileTestSuite) TestLoad_TOML() {
	path := s.write("trajectd.toml", "[tracing]\nenabled = true\nratio = 0.5\n")

	conf, err := NewFile(path, codec.TOMLCodec{}).Load(context.Background())
	s.Require().NoError(err)

	tracing, ok := conf["tracing"].(map[string]any)
	s.Require().True(ok)
	s.Equal(true, tracing["enabled"])
	s.InDelta(0.5, tracing["ratio"], 0)
}

func (s *FileTestSuite) TestLoad_Content() {
	conf, err := NewFileContent([]byte(`{"errors":{"format":"rfc9457"}}`), codec.JSONCodec{}).Load(context.Background())
	s.Require().NoError(err)
	s.Equal(map[string]any{"format": "rfc9457"}, conf["errors"])

	conf, err = NewFileContent(nil, codec.JSONCodec{}).Load(context.Background())
	s.Require().NoError(err)
	s.Empty(conf)
}

func (s *FileTestSuite) TestLoad_Errors() {
	_, err := NewFile(filepath.Join(s.dir, "missing.yaml"), codec.YAMLCodec{}).Load(context.Background())
	s.ErrorContains(err, "failed to read file")

	_, err = NewFileContent([]byte("{"), codec.JSONCodec{}).Load(context.Background())
	s.ErrorContains(err, "failed to decode file")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileContent([]byte("{}"), codec.JSONCodec{}).Load(ctx)
	s.ErrorIs(err, context.Canceled)
}

type OSEnvVarTestSuite struct {
	suite.Suite
}

func TestOSEnvVarTestSuite(t *testing.T) {
	suite.Run(t, new(OSEnvVarTestSuite))
}

func (s *OSEnvVarTestSuite) source(prefix string, env ...string) *OSEnvVar {
	src := NewOSEnvVar(prefix)
	src.environ = func() []string { return env }
	return src
}

func (s *OSEnvVarTestSuite) TestLoad_Prefix() {
	conf, err := s.source("TRAJECT_", "TRAJECT_SERVER_ADDR=:8080", "TRAJECT_LOG_LEVEL=debug", "HOME=/root").
		Load(context.Background())
	s.Require().NoError(err)

	s.Equal(map[string]any{"addr": ":8080"}, conf["server"])
	s.Equal(map[string]any{"level": "debug"}, conf["log"])
	s.NotContains(conf, "home")
}

func (s *OSEnvVarTestSuite) TestLoad_Overlap() {
	conf, err := s.source("", "METRICS=on", "METRICS_PATH=/m", "A__B=x", "=skip", "NOEQUALS").
		Load(context.Background())
	s.Require().NoError(err)

	s.Equal(map[string]any{"path": "/m"}, conf["metrics"])
	s.Equal(map[string]any{"b": "x"}, conf["a"])
	s.Len(conf, 2)
}

func (s *OSEnvVarTestSuite) TestLoad_Empty() {
	conf, err := s.source("TRAJECT_").Load(context.Background())
	s.Require().NoError(err)
	s.Empty(conf)
}

func (s *OSEnvVarTestSuite) TestLoad_RealEnvironment() {
	s.T().Setenv("TRAJECTTEST_SERVER_ADDR", ":7070")

	conf, err := NewOSEnvVar("TRAJECTTEST_").Load(context.Background())
	s.Require().NoError(err)
	s.Equal(map[string]any{"addr": ":7070"}, conf["server"])
}
