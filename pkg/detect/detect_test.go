package detect

import (
	"math"
	"testing"
)

func TestNewKeywords(t *testing.T) {
	tests := []struct {
		name      string
		input     []string
		shouldErr bool
	}{
		{"valid", []string{"computer", "jarvis"}, false},
		{"single", []string{"computer"}, false},
		{"empty_set", nil, true},
		{"empty_name", []string{"computer", ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKeywords(tt.input...)
			if tt.shouldErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestKeywords_Name(t *testing.T) {
	k, err := NewKeywords("computer", "jarvis")
	if err != nil {
		t.Fatalf("NewKeywords failed: %v", err)
	}

	name, err := k.Name(1)
	if err != nil {
		t.Fatalf("Name(1) failed: %v", err)
	}
	if name != "jarvis" {
		t.Errorf("expected jarvis, got %s", name)
	}

	if _, err := k.Name(2); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if _, err := k.Name(NoMatch); err == nil {
		t.Error("expected error for NoMatch index")
	}
}

func TestKeywords_Immutable(t *testing.T) {
	names := []string{"computer"}
	k, err := NewKeywords(names...)
	if err != nil {
		t.Fatalf("NewKeywords failed: %v", err)
	}

	names[0] = "mutated"
	got, _ := k.Name(0)
	if got != "computer" {
		t.Errorf("binding table shares caller slice: got %s", got)
	}

	k.Names()[0] = "mutated"
	got, _ = k.Name(0)
	if got != "computer" {
		t.Errorf("Names() exposes internal slice: got %s", got)
	}
}

func TestEnergyVAD_Silence(t *testing.T) {
	vad := NewEnergyVAD()

	prob, err := vad.Process(make([]int16, 512))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if prob != 0 {
		t.Errorf("expected 0 probability for silence, got %v", prob)
	}
}

func TestEnergyVAD_LoudSignal(t *testing.T) {
	vad := NewEnergyVAD()

	// Full-scale 440Hz sine at 16kHz.
	frame := make([]int16, 512)
	for i := range frame {
		frame[i] = int16(30000 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}

	prob, err := vad.Process(frame)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if prob != 1 {
		t.Errorf("expected probability 1 for loud signal, got %v", prob)
	}
}

func TestEnergyVAD_Intermediate(t *testing.T) {
	vad := NewEnergyVADLevels(0.01, 0.1)

	// Constant DC level between the two thresholds.
	frame := make([]int16, 512)
	for i := range frame {
		frame[i] = int16(math.Trunc(0.05 * 32768))
	}

	prob, err := vad.Process(frame)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if prob <= 0 || prob >= 1 {
		t.Errorf("expected probability in (0,1), got %v", prob)
	}
}

func TestScriptedKeyword(t *testing.T) {
	d := NewScriptedKeyword([]int{NoMatch, 0, 1})

	want := []int{NoMatch, 0, 1, NoMatch, NoMatch}
	for i, w := range want {
		got, err := d.Process(nil)
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
		if got != w {
			t.Errorf("call %d: expected %d, got %d", i, w, got)
		}
	}
	if d.Calls() != len(want) {
		t.Errorf("expected %d calls, got %d", len(want), d.Calls())
	}
}

func TestScriptedVoice_RepeatsLast(t *testing.T) {
	d := NewScriptedVoice([]float32{0.9, 0.1})

	want := []float32{0.9, 0.1, 0.1, 0.1}
	for i, w := range want {
		got, err := d.Process(nil)
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
		if got != w {
			t.Errorf("call %d: expected %v, got %v", i, w, got)
		}
	}
}
