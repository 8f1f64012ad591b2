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

package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"rivaas.dev/traject/config/codec"
	"rivaas.dev/traject/config/source"
)

// DefaultEnvPrefix is the prefix of environment overrides.
const DefaultEnvPrefix = "TRAJECT_"

// Option configures [Load].
type Option func(*loader)

type loader struct {
	sources []Source
	err     error
}

// WithFile reads path, detecting the format from its extension.
func WithFile(path string) Option {
	return func(l *loader) {
		format, err := detectFormat(path)
		if err != nil {
			l.err = errors.Join(l.err, err)
			return
		}
		WithFileAs(path, format)(l)
	}
}

// WithFileAs reads path in the given format.
func WithFileAs(path string, format codec.Type) Option {
	return func(l *loader) {
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			l.err = errors.Join(l.err, err)
			return
		}
		l.sources = append(l.sources, source.NewFile(path, decoder))
	}
}

// WithContent decodes data in the given format.
func WithContent(data []byte, format codec.Type) Option {
	return func(l *loader) {
		decoder, err := codec.GetDecoder(format)
		if err != nil {
			l.err = errors.Join(l.err, err)
			return
		}
		l.sources = append(l.sources, source.NewFileContent(data, decoder))
	}
}

// WithEnv reads environment variables starting with prefix.
func WithEnv(prefix string) Option {
	return WithSource(source.NewOSEnvVar(prefix))
}

// WithSource adds a custom source.
func WithSource(src Source) Option {
	return func(l *loader) {
		l.sources = append(l.sources, src)
	}
}

// Load builds Settings from [Default] overlaid with every source in order;
// later sources override earlier ones. The result is validated.
//
// Typical use reads a file and then environment overrides:
//
//	settings, err := config.Load(ctx,
//		config.WithFile("trajectd.yaml"),
//		config.WithEnv(config.DefaultEnvPrefix),
//	)
func Load(ctx context.Context, opts ...Option) (Settings, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.err != nil {
		return Settings{}, NewError("options", "load", l.err)
	}

	values, err := l.merge(ctx)
	if err != nil {
		return Settings{}, err
	}

	settings := Default()
	if err := decode(values, &settings); err != nil {
		return Settings{}, NewError("settings", "decode", err)
	}
	if err := Validate(settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(ctx context.Context, opts ...Option) Settings {
	s, err := Load(ctx, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (l *loader) merge(ctx context.Context) (map[string]any, error) {
	values := make(map[string]any)
	for i, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		conf, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if conf == nil {
			continue
		}

		if err := mergo.Map(&values, normalizeMapKeys(conf), mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}
	return values, nil
}

// normalizeMapKeys lowercases keys recursively for case-insensitive merging.
func normalizeMapKeys(m map[string]any) map[string]any {
	normalized := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeMapKeys(nested)
		}
		normalized[strings.ToLower(k)] = v
	}
	return normalized
}

func decode(values map[string]any, out *Settings) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			castStrings,
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(values)
}

// castStrings types string values, as read from the environment, for
// boolean and numeric fields.
func castStrings(from, to reflect.Kind, data any) (any, error) {
	if from != reflect.String {
		return data, nil
	}
	switch to {
	case reflect.Bool:
		return cast.ToBoolE(data)
	case reflect.Float32, reflect.Float64:
		return cast.ToFloat64E(data)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cast.ToInt64E(data)
	default:
		return data, nil
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks s against its field constraints and reports the first
// violation as a field *Error.
func Validate(s Settings) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return NewFieldError("settings", fe.Namespace(), "validate",
			fmt.Errorf("failed on %q constraint (value %v)", fe.Tag(), fe.Value()))
	}
	return NewError("settings", "validate", err)
}
