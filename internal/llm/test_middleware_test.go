package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmclient "intellic/internal/llmClient"
)

// scripted fails the first n calls with err, then answers "ok".
type scripted struct {
	n     int32
	err   error
	calls atomic.Int32
}

func (s *scripted) Name() string { return "scripted" }
func (s *scripted) Close() error { return nil }
func (s *scripted) Predict(ctx context.Context, prompt string) (string, error) {
	if s.calls.Add(1) <= s.n {
		return "", s.err
	}
	return "ok", nil
}

type panicky struct{}

func (panicky) Name() string { return "panicky" }
func (panicky) Close() error { return nil }
func (panicky) Predict(context.Context, string) (string, error) {
	panic("boom")
}

func TestFakeClient(t *testing.T) {
	f := NewFakeClient()
	got, err := f.Predict(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "LLM_OUTPUT(hello)", got)
	assert.Equal(t, []string{"hello"}, f.Prompts())

	f.Fail = errors.New("offline")
	_, err = f.Predict(context.Background(), "again")
	assert.EqualError(t, err, "offline")
}

func TestAsk(t *testing.T) {
	ctx := context.Background()

	r := Ask(ctx, NewFakeClient(), "p")
	assert.True(t, r.OK())
	assert.Equal(t, "LLM_OUTPUT(p)", r.String())

	r = Ask(ctx, &FakeClient{Fail: errors.New("down")}, "p")
	assert.False(t, r.OK())
	assert.Equal(t, "oracle unavailable: down", r.String())

	r = Ask(ctx, nil, "p")
	assert.ErrorIs(t, r.Err, ErrNoClient)

	r = Ask(ctx, panicky{}, "p")
	require.Error(t, r.Err)
	assert.Contains(t, r.Err.Error(), "boom")
}

type nilProvider struct{ model string }

func (p *nilProvider) Name() string { return "nil:" + p.model }
func (p *nilProvider) Close() error { return nil }
func (p *nilProvider) Predict(context.Context, string) (string, error) {
	return p.model, nil
}

func TestAsk_TypedNilClient(t *testing.T) {
	var c *nilProvider
	var r Result
	assert.NotPanics(t, func() { r = Ask(context.Background(), c, "p") })
	require.Error(t, r.Err)
	assert.Contains(t, r.Err.Error(), "panicked")
	assert.Contains(t, r.Err.Error(), "*llm.nilProvider")
}

func TestWrapOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next LLMClient) LLMClient {
			order = append(order, name)
			return next
		}
	}
	Wrap(NewFakeClient(), tag("A"), nil, tag("B"))
	// B wraps the inner client first, A wraps B.
	assert.Equal(t, []string{"B", "A"}, order)
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	s := &scripted{n: 2, err: errors.New("flaky")}
	got, err := Retry(3, time.Millisecond)(s).Predict(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.EqualValues(t, 3, s.calls.Load())

	s = &scripted{n: 5, err: errors.New("flaky")}
	_, err = Retry(2, time.Millisecond)(s).Predict(ctx, "p")
	assert.EqualError(t, err, "flaky")
	assert.EqualValues(t, 2, s.calls.Load())

	s = &scripted{n: 5, err: llmclient.NewPermanentError(errors.New("bad key"))}
	_, err = Retry(5, time.Millisecond)(s).Predict(ctx, "p")
	assert.True(t, llmclient.IsPermanent(err))
	assert.EqualValues(t, 1, s.calls.Load())
}

func TestRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &scripted{n: 100, err: errors.New("flaky")}
	c := Retry(10, time.Hour)(s)
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := c.Predict(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 1, s.calls.Load())
}

func TestTimeout(t *testing.T) {
	slow := clientFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	_, err := Timeout(10 * time.Millisecond)(slow).Predict(context.Background(), "p")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimit(t *testing.T) {
	c := RateLimit(1, 1)(NewFakeClient())
	ctx := context.Background()
	_, err := c.Predict(ctx, "first")
	require.NoError(t, err)

	// The bucket is empty; a short deadline cannot be met.
	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = c.Predict(short, "second")
	assert.Error(t, err)
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	s := &scripted{n: 1, err: errors.New("flaky")}
	c := Cache(8)(s)

	_, err := c.Predict(ctx, "p")
	assert.Error(t, err)
	for i := 0; i < 3; i++ {
		got, err := c.Predict(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
	}
	// One failure plus one miss; the rest come from the cache.
	assert.EqualValues(t, 2, s.calls.Load())
}

func TestWithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ok := WithMetrics(reg)(NewFakeClient())
	bad := WithMetrics(reg)(&FakeClient{Fail: errors.New("x")})

	ctx := WithPhase(context.Background(), PhaseRefine)
	_, _ = ok.Predict(ctx, "a")
	_, _ = ok.Predict(ctx, "b")
	_, _ = bad.Predict(WithPhase(context.Background(), PhaseSecurity), "c")

	m := ok.(*metered)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.calls.WithLabelValues(PhaseRefine, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues(PhaseSecurity, "error")))
}

func TestPhase(t *testing.T) {
	assert.Equal(t, "unknown", PhaseFrom(context.Background()))
	assert.Equal(t, PhaseTranspile, PhaseFrom(WithPhase(context.Background(), PhaseTranspile)))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, DefaultConfig(), nil, nil)
	require.NoError(t, err)
	got, err := c.Predict(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "LLM_OUTPUT(x)", got)
	assert.Equal(t, "FakeLLM", c.Name())

	_, err = New(ctx, Config{Provider: "carrier-pigeon"}, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownProvider)

	t.Setenv("OPENAI_API_KEY", "")
	_, err = New(ctx, Config{Provider: "openai"}, nil, nil)
	assert.Error(t, err)

	c, err = New(ctx, Config{Provider: "Groq", APIKey: "k"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "groq:llama-3.3-70b-versatile", c.Name())

	c, err = New(ctx, Config{Provider: "ollama", Model: "qwen2.5-coder"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ollama:qwen2.5-coder", c.Name())
}

type clientFunc func(ctx context.Context, prompt string) (string, error)

func (f clientFunc) Name() string { return "func" }
func (f clientFunc) Close() error { return nil }
func (f clientFunc) Predict(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
