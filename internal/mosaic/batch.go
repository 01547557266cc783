package mosaic

import (
	"context"
	"fmt"
	"time"

	"mosaic/internal/colorkey"
)

// ColorBatcher reduces one row of tile buffers to colors, preserving order.
type ColorBatcher interface {
	ComputeRowColors(ctx context.Context, buffers [][]byte) ([]colorkey.Key, error)
}

type batchMessage struct {
	buffers [][]byte
	reply   chan<- batchReply
}

type batchReply struct {
	colors []colorkey.Key
	err    error
}

// WorkerBatcher starts one worker goroutine per row. The worker gets its own
// copy of the row's buffers, answers with a single message and exits.
type WorkerBatcher struct {
	stride  int
	timeout time.Duration
	reduce  func(pixels []byte, stride int) colorkey.Key
}

func NewWorkerBatcher(stride int, timeout time.Duration) *WorkerBatcher {
	if timeout <= 0 {
		timeout = DefaultWorkerTimeout
	}
	return &WorkerBatcher{
		stride:  stride,
		timeout: timeout,
		reduce:  AverageColorStride,
	}
}

func (b *WorkerBatcher) ComputeRowColors(ctx context.Context, buffers [][]byte) ([]colorkey.Key, error) {
	if len(buffers) == 0 {
		return []colorkey.Key{}, nil
	}

	batch := make([][]byte, len(buffers))
	for i, buf := range buffers {
		batch[i] = append([]byte(nil), buf...)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	inbox := make(chan batchMessage, 1)
	reply := make(chan batchReply, 1)
	go b.work(inbox)

	inbox <- batchMessage{buffers: batch, reply: reply}
	close(inbox)

	select {
	case res, ok := <-reply:
		if !ok {
			return nil, fmt.Errorf("%w: worker exited without a reply", ErrWorkerFailure)
		}
		if res.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWorkerFailure, res.err)
		}
		if len(res.colors) != len(buffers) {
			return nil, fmt.Errorf("%w: got %d colors for %d tiles", ErrWorkerFailure, len(res.colors), len(buffers))
		}
		return res.colors, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrWorkerFailure, ctx.Err())
	}
}

func (b *WorkerBatcher) work(inbox <-chan batchMessage) {
	for msg := range inbox {
		b.handle(msg)
	}
}

func (b *WorkerBatcher) handle(msg batchMessage) {
	defer close(msg.reply)
	defer func() {
		if r := recover(); r != nil {
			msg.reply <- batchReply{err: fmt.Errorf("worker panic: %v", r)}
		}
	}()

	colors := make([]colorkey.Key, len(msg.buffers))
	for i, buf := range msg.buffers {
		colors[i] = b.reduce(buf, b.stride)
	}
	msg.reply <- batchReply{colors: colors}
}
