//go:build js && wasm

package dom

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"syscall/js"

	"check-my-fit/internal/selection"
)

// file is a browser File. Its bytes are fetched on Open.
type file struct {
	v js.Value
}

func (f file) Name() string {
	return f.v.Get("name").String()
}

func (f file) Type() string {
	return f.v.Get("type").String()
}

func (f file) Open(ctx context.Context) (io.ReadCloser, error) {
	buf, err := await(ctx, f.v.Call("arrayBuffer"))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name(), err)
	}

	arr := js.Global().Get("Uint8Array").New(buf)
	data := make([]byte, arr.Get("length").Int())
	js.CopyBytesToGo(data, arr)

	return io.NopCloser(bytes.NewReader(data)), nil
}

// files converts a FileList (from an input or a DataTransfer).
func files(list js.Value) []selection.File {
	if list.IsNull() || list.IsUndefined() {
		return nil
	}
	n := list.Length()
	out := make([]selection.File, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, file{v: list.Index(i)})
	}
	return out
}

// await blocks the calling goroutine until promise settles. It must not be
// called from a js.Func callback.
func await(ctx context.Context, promise js.Value) (js.Value, error) {
	type settled struct {
		v   js.Value
		err error
	}
	ch := make(chan settled, 1)

	onResolve := js.FuncOf(func(this js.Value, args []js.Value) any {
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		ch <- settled{v: v}
		return nil
	})

	onReject := js.FuncOf(func(this js.Value, args []js.Value) any {
		err := errors.New("promise rejected")
		if len(args) > 0 && args[0].Truthy() {
			err = errors.New(args[0].Call("toString").String())
		}
		ch <- settled{err: err}
		return nil
	})
	release := func() {
		onResolve.Release()
		onReject.Release()
	}

	promise.Call("then", onResolve, onReject)

	select {
	case s := <-ch:
		release()
		return s.v, s.err
	case <-ctx.Done():
		// The callbacks stay registered until the promise settles.
		go func() {
			<-ch
			release()
		}()
		return js.Undefined(), ctx.Err()
	}
}
