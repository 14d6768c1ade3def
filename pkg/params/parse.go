package params

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Error categories for a rejected override. All of them stay inside the
// store's update path; callers of Update only ever see a boolean.
var (
	// ErrGrammar indicates the override text does not match the key=value
	// grammar, or repeats a key.
	ErrGrammar = errors.New("override grammar violation")

	// ErrParse indicates a recognized key's value has the wrong numeric
	// shape (wrong element count, or not an integer).
	ErrParse = errors.New("override value malformed")
)

// Keys recognized in override strings. Unknown keys are ignored so that a
// newer control plane can ship overrides to older builds.
const (
	keyRSSI2   = "rssi2"
	keyRSSI5   = "rssi5"
	keyRSSI6   = "rssi6"
	keyPPS     = "pps"
	keyHorizon = "horizon"
	keyNUD     = "nud"
	keyExpID   = "expid"
)

// overrideGrammar matches a comma-separated key=value list once the input
// has been prefixed with a leading comma.
var overrideGrammar = regexp.MustCompile(`^(,[A-Za-z_][A-Za-z0-9_]*=[0-9.:+-]+)*$`)

// parseOverride splits an override string into key/value pairs, rejecting
// anything outside the grammar and any duplicated key. It does no semantic
// interpretation of values.
func parseOverride(kvList string) (map[string]string, error) {
	if !overrideGrammar.MatchString("," + kvList) {
		return nil, fmt.Errorf("%w: %q", ErrGrammar, Sanitize(kvList))
	}
	pairs := strings.Split(kvList, ",")
	kv := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		if _, dup := kv[key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrGrammar, key)
		}
		kv[key] = value
	}
	return kv, nil
}

// applyOverrides overwrites the fields named by kv in place. Callers pass a
// private copy of the active set, so a mid-way failure here never leaks: the
// whole copy is discarded.
func (p *ParameterSet) applyOverrides(kv map[string]string) error {
	if err := applyIntArray(kv, keyRSSI2, p.RSSI2[:]); err != nil {
		return err
	}
	if err := applyIntArray(kv, keyRSSI5, p.RSSI5[:]); err != nil {
		return err
	}
	if err := applyIntArray(kv, keyRSSI6, p.RSSI6[:]); err != nil {
		return err
	}
	if err := applyIntArray(kv, keyPPS, p.PPS[:]); err != nil {
		return err
	}
	var err error
	if p.Horizon, err = applyInt(kv, keyHorizon, p.Horizon); err != nil {
		return err
	}
	if p.NUD, err = applyInt(kv, keyNUD, p.NUD); err != nil {
		return err
	}
	if p.ExpID, err = applyInt(kv, keyExpID, p.ExpID); err != nil {
		return err
	}
	return nil
}

// applyInt returns the parsed value for key, or the current value when the
// key is absent.
func applyInt(kv map[string]string, key string, current int) (int, error) {
	raw, ok := kv[key]
	if !ok {
		return current, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrParse, key, raw)
	}
	return v, nil
}

// applyIntArray overwrites dst element-wise from a colon-separated list.
// The list length must match dst exactly.
func applyIntArray(kv map[string]string, key string, dst []int) error {
	raw, ok := kv[key]
	if !ok {
		return nil
	}
	fields := strings.Split(raw, ":")
	if len(fields) != len(dst) {
		return fmt.Errorf("%w: %s wants %d values, got %d", ErrParse, key, len(dst), len(fields))
	}
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("%w: %s[%d]=%q is not an integer", ErrParse, key, i, f)
		}
		dst[i] = v
	}
	return nil
}

// Render serializes the externally overridable subset of the parameter set
// back into override grammar. Feeding the result to Update is a no-op.
func (p *ParameterSet) Render() string {
	var sb strings.Builder
	appendIntArray(&sb, keyRSSI2, p.RSSI2[:])
	appendIntArray(&sb, keyRSSI5, p.RSSI5[:])
	appendIntArray(&sb, keyRSSI6, p.RSSI6[:])
	appendIntArray(&sb, keyPPS, p.PPS[:])
	appendInt(&sb, keyHorizon, p.Horizon)
	appendInt(&sb, keyNUD, p.NUD)
	appendInt(&sb, keyExpID, p.ExpID)
	return sb.String()
}

func appendKey(sb *strings.Builder, key string) {
	if sb.Len() != 0 {
		sb.WriteByte(',')
	}
	sb.WriteString(key)
	sb.WriteByte('=')
}

func appendInt(sb *strings.Builder, key string, v int) {
	appendKey(sb, key)
	sb.WriteString(strconv.Itoa(v))
}

func appendIntArray(sb *strings.Builder, key string, a []int) {
	appendKey(sb, key)
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(':')
		}
		sb.WriteString(strconv.Itoa(v))
	}
}

// unsafeChars matches everything outside the character set the override
// grammar can produce.
var unsafeChars = regexp.MustCompile(`[^A-Za-z_0-9=,:.+-]`)

// Sanitize makes an untrusted override string safe for logs: characters
// outside the grammar alphabet become '?', and long input is truncated.
// This is a display helper only, not a substitute for grammar checking.
func Sanitize(s string) string {
	printable := unsafeChars.ReplaceAllString(s, "?")
	if len(printable) > 100 {
		printable = printable[:98] + "..."
	}
	return printable
}
