package stall

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Result hashes shorter than this are kept verbatim so the detector stays
// cheap for small payloads.
const inlineHashLimit = 256

// How many identical consecutive results count as a stall.
const repeatThreshold = 3

type step struct {
	callKey    string
	resultHash string
}

// Detector watches the tool call sequence of a single agent run and flags
// unproductive loops. Not safe for concurrent use, each run owns one.
type Detector struct {
	steps   []step
	seen    map[string]bool
	stalled bool
	reason  string
}

func NewDetector() *Detector {
	return &Detector{seen: map[string]bool{}}
}

// Record registers a completed tool call. A run is considered stalled when
// the exact same call (tool plus canonical params) repeats, or when the
// last three results are identical regardless of which tools produced them.
func (d *Detector) Record(tool string, params map[string]interface{}, result string) {
	key := CallKey(tool, params)
	hash := hashResult(result)
	d.steps = append(d.steps, step{callKey: key, resultHash: hash})

	if d.stalled {
		return
	}

	if d.seen[key] {
		d.stalled = true
		d.reason = fmt.Sprintf("repeated identical call to %s", tool)
		return
	}
	d.seen[key] = true

	n := len(d.steps)
	if n >= repeatThreshold {
		last := d.steps[n-1].resultHash
		identical := true
		for i := n - repeatThreshold; i < n-1; i++ {
			if d.steps[i].resultHash != last {
				identical = false
				break
			}
		}
		if identical {
			d.stalled = true
			d.reason = fmt.Sprintf("last %d tool results identical", repeatThreshold)
		}
	}
}

func (d *Detector) IsStalled() bool {
	return d.stalled
}

func (d *Detector) Reason() string {
	return d.reason
}

// CallKey builds a canonical identity for a tool invocation. Params are
// serialized with sorted keys so map iteration order cannot split
// otherwise identical calls.
func CallKey(tool string, params map[string]interface{}) string {
	if len(params) == 0 {
		return tool + "()"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := tool + "("
	for i, k := range keys {
		if i > 0 {
			buf += ","
		}
		v, err := json.Marshal(params[k])
		if err != nil {
			v = []byte(fmt.Sprintf("%v", params[k]))
		}
		buf += k + "=" + string(v)
	}
	return buf + ")"
}

func hashResult(result string) string {
	if len(result) < inlineHashLimit {
		return result
	}
	sum := sha256.Sum256([]byte(result))
	return hex.EncodeToString(sum[:])
}
