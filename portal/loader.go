package portal

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"

	"portal-scene/scene"
)

// ErrAssetLoad wraps every failure delivered by the asset future.
var ErrAssetLoad = errors.New("asset load failed")

const (
	taskModel = iota + 1
	taskTexture
)

// LoadResult is delivered once per Load call. Err is nil only when both
// the model and the baked texture decoded.
type LoadResult struct {
	Model *scene.Node
	Baked *scene.Texture
	Err   error
}

// Loader decodes assets on a worker pool, off the render thread.
type Loader struct {
	pool worker.DynamicWorkerPool
	log  *zap.Logger
}

func NewLoader(workers int, log *zap.Logger) *Loader {
	return &Loader{
		pool: worker.NewDynamicWorkerPool(workers, 4, time.Second),
		log:  log,
	}
}

// Load starts decoding the model and texture and returns the future. The
// channel is buffered and receives exactly one result.
func (l *Loader) Load(modelPath, texturePath string) <-chan LoadResult {
	out := make(chan LoadResult, 1)

	var (
		wg       sync.WaitGroup
		model    *scene.GLTFResult
		tex      *scene.Texture
		modelErr error
		texErr   error
	)
	start := time.Now()

	wg.Add(2)
	l.pool.SubmitTask(worker.Task{
		ID:      taskModel,
		Payload: modelPath,
		Do: func() (any, error) {
			defer wg.Done()
			model, modelErr = scene.LoadGLTF(modelPath)
			return model, modelErr
		},
	})
	l.pool.SubmitTask(worker.Task{
		ID:      taskTexture,
		Payload: texturePath,
		Do: func() (any, error) {
			defer wg.Done()
			tex, texErr = scene.LoadTexture(texturePath)
			return tex, texErr
		},
	})

	go func() {
		wg.Wait()
		if err := errors.Join(modelErr, texErr); err != nil {
			out <- LoadResult{Err: fmt.Errorf("%w: %w", ErrAssetLoad, err)}
			return
		}
		l.log.Debug("assets decoded",
			zap.String("model", modelPath),
			zap.String("texture", texturePath),
			zap.Int("textureWidth", tex.Width),
			zap.Int("textureHeight", tex.Height),
			zap.Duration("took", time.Since(start)),
		)
		out <- LoadResult{Model: model.Root, Baked: tex}
	}()
	return out
}

// Close stops the pool's workers.
func (l *Loader) Close() {
	l.pool.Stop()
}
