package detect

// ScriptedKeyword is a deterministic KeywordDetector for tests.
// Call n returns the n-th entry of the script; calls past the end return
// NoMatch.
type ScriptedKeyword struct {
	script []int
	call   int
	err    error
}

// NewScriptedKeyword creates a detector that replays the given indices.
func NewScriptedKeyword(script []int) *ScriptedKeyword {
	return &ScriptedKeyword{script: script}
}

// FailWith makes every subsequent Process call return err.
func (d *ScriptedKeyword) FailWith(err error) {
	d.err = err
}

// Process returns the next scripted result.
func (d *ScriptedKeyword) Process(frame []int16) (int, error) {
	if d.err != nil {
		return NoMatch, d.err
	}
	if d.call >= len(d.script) {
		d.call++
		return NoMatch, nil
	}
	result := d.script[d.call]
	d.call++
	return result, nil
}

// Calls returns how many frames have been processed.
func (d *ScriptedKeyword) Calls() int {
	return d.call
}

// ScriptedVoice is a deterministic VoiceActivity for tests.
// Call n returns the n-th entry of the script; calls past the end return
// the last entry (or 0 for an empty script).
type ScriptedVoice struct {
	script []float32
	call   int
	err    error
}

// NewScriptedVoice creates an estimator that replays the given
// probabilities.
func NewScriptedVoice(script []float32) *ScriptedVoice {
	return &ScriptedVoice{script: script}
}

// FailWith makes every subsequent Process call return err.
func (d *ScriptedVoice) FailWith(err error) {
	d.err = err
}

// Process returns the next scripted probability.
func (d *ScriptedVoice) Process(frame []int16) (float32, error) {
	if d.err != nil {
		return 0, d.err
	}
	var result float32
	switch {
	case d.call < len(d.script):
		result = d.script[d.call]
	case len(d.script) > 0:
		result = d.script[len(d.script)-1]
	}
	d.call++
	return result, nil
}

var (
	_ KeywordDetector = (*ScriptedKeyword)(nil)
	_ VoiceActivity   = (*ScriptedVoice)(nil)
)
