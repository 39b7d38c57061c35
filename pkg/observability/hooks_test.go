package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	a := NoopAnalysisHooks{}
	a.OnAnalyzeStart(ctx, "s1")
	a.OnAnalyzeComplete(ctx, "s1", 3, false, time.Second, nil)
	a.OnBatchStart(ctx, "run", 10)
	a.OnBatchComplete(ctx, "run", 9, 1, time.Second)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "analysis")
	c.OnCacheMiss(ctx, "bound")
	c.OnCacheSet(ctx, "analysis", 1024)

	s := NoopSinkHooks{}
	s.OnWrite(ctx, "jsonl", time.Millisecond, nil)
	s.OnWrite(ctx, "mongo", time.Millisecond, errors.New("down"))

	h := NoopAPIHooks{}
	h.OnRequest(ctx, "POST", "/v1/analyze", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Analysis().(NoopAnalysisHooks); !ok {
		t.Error("Analysis() should return NoopAnalysisHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Sink().(NoopSinkHooks); !ok {
		t.Error("Sink() should return NoopSinkHooks by default")
	}
	if _, ok := API().(NoopAPIHooks); !ok {
		t.Error("API() should return NoopAPIHooks by default")
	}

	customAnalysis := &testAnalysisHooks{}
	SetAnalysisHooks(customAnalysis)
	if Analysis() != customAnalysis {
		t.Error("SetAnalysisHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customSink := &testSinkHooks{}
	SetSinkHooks(customSink)
	if Sink() != customSink {
		t.Error("SetSinkHooks should set custom hooks")
	}

	customAPI := &testAPIHooks{}
	SetAPIHooks(customAPI)
	if API() != customAPI {
		t.Error("SetAPIHooks should set custom hooks")
	}

	Reset()
	if _, ok := Analysis().(NoopAnalysisHooks); !ok {
		t.Error("Reset() should restore NoopAnalysisHooks")
	}
	if _, ok := API().(NoopAPIHooks); !ok {
		t.Error("Reset() should restore NoopAPIHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testAnalysisHooks{}
	SetAnalysisHooks(custom)
	SetAnalysisHooks(nil)

	if Analysis() != custom {
		t.Error("SetAnalysisHooks(nil) should be ignored")
	}

	Reset()
}

type testAnalysisHooks struct{ NoopAnalysisHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testSinkHooks struct{ NoopSinkHooks }
type testAPIHooks struct{ NoopAPIHooks }
