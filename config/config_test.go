package config

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Fake
		wantErr bool
	}{
		{name: "empty", cfg: Fake{}},
		{name: "debug", cfg: Fake{Log: Log{Level: "debug"}, Database: "testdb", Metrics: true}},
		{name: "upper case", cfg: Fake{Log: Log{Level: "WARN"}}},
		{name: "unknown level", cfg: Fake{Log: Log{Level: "verbose"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasLogLevel(t *testing.T) {
	if !hasLogLevel(&Fake{}) {
		t.Error("Fake has a log level")
	}
	if hasLogLevel(&struct{ Database string }{}) {
		t.Error("expected no log level")
	}
	if hasLogLevel(&struct{ Log string }{}) {
		t.Error("a string Log field has no level")
	}
}

func TestBinderPanicsBeforeInit(t *testing.T) {
	if binder != nil {
		t.Skip("binder already initialized")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	Binder()
}
