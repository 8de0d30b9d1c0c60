package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Veraticus/the-stars-must-align/internal/model"
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

func TestValidateEvent(t *testing.T) {
	valid := func() model.Event {
		return model.Event{
			Title:  "Venus in the 7th House for Love",
			Date:   "2025-03-14",
			Time:   "10:00",
			Method: model.MethodHouses,
		}
	}

	tests := []struct {
		mutate  func(*model.Event)
		name    string
		wantErr bool
	}{
		{name: "valid event", mutate: func(*model.Event) {}},
		{name: "blank title", mutate: func(e *model.Event) { e.Title = "  " }, wantErr: true},
		{name: "short date", mutate: func(e *model.Event) { e.Date = "2025-3-14" }, wantErr: true},
		{name: "missing method", mutate: func(e *model.Event) { e.Method = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := valid()
			tt.mutate(&ev)
			err := validateEvent(&ev)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("validateEvent() error = %v, want ErrInvalidEvent", err)
			}
		})
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		want  error
		name  string
		start string
		end   string
	}{
		{name: "single day", start: "2025-03-14", end: "2025-03-14"},
		{name: "month", start: "2025-03-01", end: "2025-03-31"},
		{name: "reversed", start: "2025-03-31", end: "2025-03-01", want: ErrInvalidDateRange},
		{name: "missing start", start: "", end: "2025-03-01", want: ErrEmptyString},
		{name: "missing end", start: "2025-03-01", end: " ", want: ErrEmptyString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDateRange(tt.start, tt.end)
			if tt.want == nil {
				if err != nil {
					t.Errorf("validateDateRange() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("validateDateRange() error = %v, want %v", err, tt.want)
			}
		})
	}
}
