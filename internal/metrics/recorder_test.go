package metrics

import (
	"testing"
	"time"
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("documents", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("documents", ResultFatal)
	r.IncBuildOutcome(BuildOutcomeCanceled)
	r.AddRendered("post", 1)
	r.AddAssets(1)
}
