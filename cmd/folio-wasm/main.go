//go:build js && wasm

// Command folio-wasm binds the tab strip, the image lightbox and the hero
// photo sizing to a rendered page. Build it with
//
//	GOOS=js GOARCH=wasm go build -o site/static/folio.wasm ./cmd/folio-wasm
//
// and copy $(go env GOROOT)/lib/wasm/wasm_exec.js next to it.
package main

import (
	"strconv"
	"syscall/js"
	"time"

	"github.com/ziadkadry99/folio/internal/lightbox"
	"github.com/ziadkadry99/folio/internal/page"
	"github.com/ziadkadry99/folio/internal/tabs"
)

const resizeDebounce = 120 * time.Millisecond

var (
	window   = js.Global()
	document = js.Global().Get("document")

	// Handlers live for the page's lifetime and are never released.
	funcs []js.Func
)

func main() {
	bindTabs()
	bindLightbox()
	bindHero()
	select {}
}

func on(target js.Value, event string, fn func(this js.Value, ev js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := js.Undefined()
		if len(args) > 0 {
			ev = args[0]
		}
		fn(this, ev)
		return nil
	})
	funcs = append(funcs, f)
	target.Call("addEventListener", event, f)
}

func each(selector string, fn func(el js.Value)) {
	list := document.Call("querySelectorAll", selector)
	for i := 0; i < list.Get("length").Int(); i++ {
		fn(list.Index(i))
	}
}

func setClass(el js.Value, class string, on bool) {
	if on {
		el.Get("classList").Call("add", class)
	} else {
		el.Get("classList").Call("remove", class)
	}
}

func bindTabs() {
	var names []string
	active := ""
	each(".tab[data-tab]", func(btn js.Value) {
		name := btn.Get("dataset").Get("tab").String()
		if document.Call("getElementById", name).IsNull() {
			return
		}
		names = append(names, name)
		if active == "" && btn.Get("classList").Call("contains", "active").Bool() {
			active = name
		}
	})
	if len(names) == 0 {
		return
	}
	ctrl := tabs.New(names, active)

	apply := func() {
		each(".tab[data-tab]", func(btn js.Value) {
			setClass(btn, "active", ctrl.IsActive(btn.Get("dataset").Get("tab").String()))
		})
		each(".tab-panel", func(panel js.Value) {
			setClass(panel, "active", ctrl.IsActive(panel.Get("id").String()))
		})
	}

	each(".tab[data-tab]", func(btn js.Value) {
		name := btn.Get("dataset").Get("tab").String()
		on(btn, "click", func(js.Value, js.Value) {
			if err := ctrl.Select(name); err != nil {
				return
			}
			apply()
		})
	})
}

func bindLightbox() {
	box := document.Call("getElementById", "lightbox")
	if box.IsNull() {
		return
	}
	img := box.Call("querySelector", "img")
	caption := box.Call("querySelector", ".caption")
	closeBtn := box.Call("querySelector", ".close-btn")
	if img.IsNull() {
		return
	}

	v := lightbox.New()
	viewport := func() lightbox.Size {
		return lightbox.Size{
			Width:  window.Get("innerWidth").Float(),
			Height: window.Get("innerHeight").Float(),
		}
	}
	render := func() {
		if !v.IsOpen() {
			box.Get("style").Set("display", "none")
			return
		}
		box.Get("style").Set("display", "flex")
		img.Get("style").Set("transform", v.Transform())
		setClass(img, "zoomed", v.Zoomed())
	}

	// The viewer works in the displayed size at scale 1, which the
	// stylesheet caps below the natural size.
	measure := func() {
		v.Measure(lightbox.Size{
			Width:  img.Get("clientWidth").Float(),
			Height: img.Get("clientHeight").Float(),
		}, viewport())
	}

	each(".clickable-img", func(el js.Value) {
		on(el, "click", func(this js.Value, _ js.Value) {
			src := this.Get("src").String()
			alt := this.Get("alt").String()
			img.Set("src", src)
			img.Set("alt", alt)
			if !caption.IsNull() {
				caption.Set("textContent", alt)
			}
			v.Open(src, alt, lightbox.Size{})
			render()
			measure()
		})
	})

	// A cached image has its layout size as soon as the box is shown;
	// otherwise it arrives with the load event.
	on(img, "load", func(js.Value, js.Value) {
		if v.IsOpen() && !v.Zoomed() {
			measure()
			render()
		}
	})

	if !closeBtn.IsNull() {
		on(closeBtn, "click", func(_ js.Value, ev js.Value) {
			ev.Call("stopPropagation")
			v.Close()
			render()
		})
	}
	on(box, "click", func(_ js.Value, ev js.Value) {
		target := lightbox.TargetCaption
		if ev.Get("target").Equal(box) {
			target = lightbox.TargetBackdrop
		}
		if v.Click(target) {
			render()
		}
	})
	on(img, "click", func(_ js.Value, ev js.Value) {
		ev.Call("stopPropagation")
		if !v.Zoomed() {
			measure()
		}
		v.ToggleZoom(viewport())
		render()
	})
	on(box, "wheel", func(_ js.Value, ev js.Value) {
		ev.Call("preventDefault")
		if !v.Zoomed() {
			return
		}
		v.Pan(ev.Get("deltaX").Float(), ev.Get("deltaY").Float(), viewport())
		render()
	})
	on(window, "resize", func(js.Value, js.Value) {
		v.Resize(viewport())
		render()
	})
	on(document, "keydown", func(_ js.Value, ev js.Value) {
		if ev.Get("key").String() == "Escape" && v.IsOpen() {
			v.Close()
			render()
		}
	})
}

func bindHero() {
	photo := document.Call("querySelector", ".hero-photo")
	copyEl := document.Call("querySelector", ".hero-copy")
	if photo.IsNull() || copyEl.IsNull() {
		return
	}

	size := func() {
		edge, ok := page.HeroPhotoSize(copyEl.Get("offsetHeight").Float())
		if !ok {
			return
		}
		px := strconv.FormatFloat(edge, 'f', -1, 64) + "px"
		style := photo.Get("style")
		style.Set("width", px)
		style.Set("height", px)
	}

	var timer *time.Timer
	on(window, "resize", func(js.Value, js.Value) {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(resizeDebounce, size)
	})
	on(window, "load", func(js.Value, js.Value) { size() })
	size()
}
