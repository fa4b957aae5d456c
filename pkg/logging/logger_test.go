package logging

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "info", level: "info"},
		{name: "debug", level: "debug"},
		{name: "unknown level", level: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger.Zap == nil {
				t.Fatal("New() returned logger without zap core")
			}
		})
	}
}

func TestNamed_NilSafe(t *testing.T) {
	var l *Logger
	if l.Named("x") == nil {
		t.Fatal("Named on nil logger returned nil")
	}
	if Nop().Named("tgbot") == nil {
		t.Fatal("Named on nop logger returned nil")
	}
}
