package xwatch

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
)

// Trigger 取消手势。
//
// Wait 在手势发生时返回 nil，在 ctx 结束时返回 ctx.Err()。
// 其他错误表示手势再也不会发生，等待方会继续等待修改或 ctx 结束。
type Trigger interface {
	Wait(ctx context.Context) error
}

// TriggerFunc 函数适配 Trigger。
type TriggerFunc func(ctx context.Context) error

// Wait 实现 Trigger。
func (f TriggerFunc) Wait(ctx context.Context) error { return f(ctx) }

type chanTrigger struct {
	ch <-chan struct{}
}

// ChannelTrigger ch 可读（收到值或被关闭）即触发。
func ChannelTrigger(ch <-chan struct{}) Trigger {
	return chanTrigger{ch: ch}
}

func (t chanTrigger) Wait(ctx context.Context) error {
	select {
	case <-t.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NeverTrigger 永不触发，只等待修改或 ctx 结束。
func NeverTrigger() Trigger {
	return chanTrigger{}
}

// ReaderTrigger 从 r 读到一行即触发，用于"按回车取消"。
//
// 读取在独立 goroutine 中进行，首次 Wait 时启动；阻塞的 Read 无法被中断，
// 该 goroutine 在 r 返回数据、EOF 或错误后退出。同一个 ReaderTrigger 可多次 Wait，
// 每读到一行只触发一次。
func ReaderTrigger(r io.Reader) Trigger {
	return &readerTrigger{r: r, lines: make(chan error, 1)}
}

type readerTrigger struct {
	r     io.Reader
	once  sync.Once
	lines chan error
}

func (t *readerTrigger) start() {
	go func() {
		defer close(t.lines)
		sc := bufio.NewScanner(t.r)
		for sc.Scan() {
			t.lines <- nil
		}
		if err := sc.Err(); err != nil {
			t.lines <- err
			return
		}
		t.lines <- io.EOF
	}()
}

func (t *readerTrigger) Wait(ctx context.Context) error {
	t.once.Do(t.start)
	select {
	case err, ok := <-t.lines:
		if !ok {
			return io.EOF
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SignalTrigger 收到任一信号即触发，默认 os.Interrupt。
// 只在 Wait 期间拦截信号。
func SignalTrigger(sigs ...os.Signal) Trigger {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt}
	}
	return TriggerFunc(func(ctx context.Context) error {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, sigs...)
		defer signal.Stop(ch)
		select {
		case <-ch:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// AnyTrigger 任一子触发器触发即触发。
func AnyTrigger(triggers ...Trigger) Trigger {
	return TriggerFunc(func(ctx context.Context) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		fired := make(chan struct{}, len(triggers))
		var wg sync.WaitGroup
		for _, t := range triggers {
			wg.Go(func() {
				if t.Wait(ctx) == nil {
					fired <- struct{}{}
				}
			})
		}

		select {
		case <-fired:
			cancel()
			wg.Wait()
			return nil
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		}
	})
}
