package logger

import "testing"

func TestInit(t *testing.T) {
	l := New()
	if l.Log == nil {
		t.Fatal("New returned nil logger")
	}

	if err := l.Init("debug"); err != nil {
		t.Fatalf("Init(debug) failed: %v", err)
	}
	if l.Log == nil {
		t.Fatal("Init left logger nil")
	}
}

func TestInit_BadLevel(t *testing.T) {
	l := New()
	if err := l.Init("loud"); err == nil {
		t.Fatal("Init(loud) did not return error")
	}
}
