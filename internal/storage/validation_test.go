package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/lakesift/lakesift/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		str       string
		paramName string
		wantErr   bool
	}{
		{
			name:      "valid string",
			str:       "test",
			paramName: "param",
			wantErr:   false,
		},
		{
			name:      "empty string",
			str:       "",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			str:       "   ",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "string with spaces",
			str:       "  test  ",
			paramName: "param",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.paramName) {
				t.Errorf("validateString() error should contain param name %s, got %v", tt.paramName, err)
			}
		})
	}
}

func TestValidateTagEntry(t *testing.T) {
	validTable := model.TableReference{Catalog: "prod", Database: "crm", Table: "contacts"}

	tests := []struct {
		name    string
		errMsg  string
		entry   model.TagEntry
		wantErr bool
	}{
		{
			name:    "valid entry",
			entry:   model.TagEntry{Table: validTable, Column: "email", Tag: "dx_email"},
			wantErr: false,
		},
		{
			name:    "missing catalog",
			entry:   model.TagEntry{Table: model.TableReference{Database: "crm", Table: "contacts"}, Column: "email", Tag: "dx_email"},
			wantErr: true,
			errMsg:  "missing catalog",
		},
		{
			name:    "missing database",
			entry:   model.TagEntry{Table: model.TableReference{Catalog: "prod", Table: "contacts"}, Column: "email", Tag: "dx_email"},
			wantErr: true,
			errMsg:  "missing database",
		},
		{
			name:    "missing table",
			entry:   model.TagEntry{Table: model.TableReference{Catalog: "prod", Database: "crm"}, Column: "email", Tag: "dx_email"},
			wantErr: true,
			errMsg:  "missing table",
		},
		{
			name:    "missing column",
			entry:   model.TagEntry{Table: validTable, Tag: "dx_email"},
			wantErr: true,
			errMsg:  "missing column",
		},
		{
			name:    "missing tag",
			entry:   model.TagEntry{Table: validTable, Column: "email"},
			wantErr: true,
			errMsg:  "missing tag",
		},
		{
			name:    "whitespace column",
			entry:   model.TagEntry{Table: validTable, Column: "   ", Tag: "dx_email"},
			wantErr: true,
			errMsg:  "missing column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTagEntry(tt.entry)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateTagEntry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("validateTagEntry() error should contain %s, got %v", tt.errMsg, err)
			}
		})
	}
}
