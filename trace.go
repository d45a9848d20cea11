package tdl

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Tracer prints every decision and update of an episode the way a person
// follows the learning by hand: the board history side by side, the four
// scored moves, and one line per TD(0) update.
type Tracer struct {
	w        io.Writer
	alpha    float32
	forward  bool
	decimals int
}

// NewTracer writes to w and rounds estimates to four decimals.
func NewTracer(w io.Writer, conf Config) *Tracer {
	return &Tracer{
		w:        w,
		alpha:    conf.Alpha,
		forward:  conf.Forward,
		decimals: 4,
	}
}

func (t *Tracer) norm(v float32) float64 {
	base := math.Pow(10, float64(t.decimals))
	return math.Round(float64(v)*base) / base
}

func (t *Tracer) EpisodeBegin(episode int) {
	fmt.Fprintf(t.w, "episode #%d:\n", episode)
}

func (t *Tracer) Step(info StepInfo) {
	buf := [4]string{"+", "|", "|", "+"}
	ep := info.History
	for i, b := range ep.States {
		lines := strings.Split(b.String(), "\n")
		for j := range buf {
			buf[j] += lines[j][1:]
		}
		if i%2 == 1 {
			buf[0] = stampReward(buf[0], ep.Rewards[i/2])
			buf[3] = stampName(buf[3], b.Name())
		}
	}

	for i, c := range info.Candidates {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s %s: ", buf[i], c.Dir.Symbol())
		if c.Legal() {
			fmt.Fprintf(&sb, "%d + %v", c.Reward, t.norm(c.Value-float32(c.Reward)))
			if c.Dir == info.Chosen {
				sb.WriteString(" *")
			}
		} else {
			sb.WriteString("n/a")
		}
		buf[i] = sb.String()
	}
	for _, line := range buf {
		fmt.Fprintln(t.w, line)
	}

	if t.forward && len(ep.States) == 1 {
		fmt.Fprintln(t.w, "TD(0): n/a")
	}
}

func (t *Tracer) Update(info UpdateInfo) {
	fmt.Fprintf(t.w, "TD(0): V(%s) = %v + %v * (%d + %v - %v) = %v\n",
		info.State.Name(), t.norm(info.Old), t.alpha, info.Reward,
		t.norm(info.Target-float32(info.Reward)), t.norm(info.Old), t.norm(info.New))
}

func (t *Tracer) EpisodeEnd(res Result) {
	fmt.Fprintf(t.w, "episode #%d finished: %d moves, score %d, final %s\n", res.Episode, res.Steps, res.Score, res.Final.Name())
}

// stampReward writes "(+r)" at the right end of a board's top border.
func stampReward(line string, reward int) string {
	b := []byte(line)
	r := strconv.Itoa(reward)
	const off = 2
	n := len(b)
	if len(r)+off+2 > 7 {
		return line
	}
	b[n-len(r)-(off+2)] = '('
	b[n-len(r)-(off+1)] = '+'
	b[n-off] = ')'
	copy(b[n-len(r)-off:], r)
	return string(b)
}

// stampName writes "[xxxx]" into a board's bottom border.
func stampName(line, name string) string {
	b := []byte(line)
	const off = 2
	n := len(b)
	b[n-(off+5)] = '['
	b[n-off] = ']'
	copy(b[n-(off+4):], name)
	return string(b)
}
