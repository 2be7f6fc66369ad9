package translator

import (
	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

// progress 批次进度条，未开启时各方法为空操作
type progress struct {
	bar *pterm.ProgressbarPrinter
}

func (t *Translator) startProgress(total int) *progress {
	if !t.opts.Progress || total <= 1 {
		return &progress{}
	}

	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("翻译进度").
		WithWriter(t.opts.Output).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		t.logger.Debug("进度条无法启动", zap.Error(err))
		return &progress{}
	}
	return &progress{bar: bar}
}

func (p *progress) increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *progress) stop() {
	if p.bar != nil {
		_, _ = p.bar.Stop()
	}
}
