package bilingual

import (
	"fmt"
	"iter"
	"math"
)

// Unit 配额计量单位
type Unit uint8

const (
	// Bytes 按 UTF-8 字节计
	Bytes Unit = iota
	// Chars 按 Unicode 字符计
	Chars
)

func (u Unit) String() string {
	if u == Chars {
		return "chars"
	}
	return "bytes"
}

// Limit 翻译服务单次请求的配额；N 为 0 表示不合并，每段单独成批
type Limit struct {
	Unit Unit
	N    int
}

// Byte 按字节计的配额
func Byte(n int) Limit {
	return Limit{Unit: Bytes, N: n}
}

// Char 按字符计的配额
func Char(n int) Limit {
	return Limit{Unit: Chars, N: n}
}

func (l Limit) String() string {
	return fmt.Sprintf("%d %s", l.N, l.Unit)
}

// Sizes 返回该配额单位下每段的大小
func (l Limit) Sizes(x *Extraction) []int {
	if l.Unit == Chars {
		return x.Chars
	}
	return x.Bytes
}

// Batch 一次请求的内容：缓冲区中连续的若干完整段落
type Batch struct {
	// Text 批次文本，每段以 \n 结尾
	Text string
	// Start/End 在缓冲区中的字节范围
	Start, End int
	// First 首段序号，Count 段数
	First, Count int
	// Size 按配额单位计的大小
	Size int
}

// quota 当前批次的累计状态
type quota struct {
	limit int
	cnt   int
}

// advance 计入一段的大小；返回 true 表示当前批次应在该段之前结束，该段成为下一批的第一段。
// 累计值饱和到 math.MaxInt 时视为无穷大，总是溢出。
func (q *quota) advance(size int) bool {
	if q.limit == 0 {
		q.cnt = size
		return true
	}
	if total := addCapped(q.cnt, size); total <= q.limit && total != math.MaxInt {
		q.cnt = total
		return false
	}
	q.cnt = size
	return true
}

// addCapped 饱和加法，结果不超过 math.MaxInt
func addCapped(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// Batcher 惰性地把段落划分为批次
type Batcher struct {
	buffer string
	bytes  []int
	sizes  []int
	q      quota

	next  int // 下一个待计入的段落序号
	first int // 当前批次首段序号
	pos   int // 当前批次在缓冲区中的起始偏移
	end   int // 已计入段落的结束偏移
	size  int // 当前批次已计入的大小
}

// NewBatcher 创建分批器；bytes 用于切分缓冲区，sizes 用于与 limit 比较，两者等长
func NewBatcher(buffer string, bytes, sizes []int, limit int) *Batcher {
	if len(bytes) != len(sizes) {
		panic(fmt.Sprintf("bilingual: 段落长度数量不一致: bytes=%d sizes=%d", len(bytes), len(sizes)))
	}
	return &Batcher{
		buffer: buffer,
		bytes:  bytes,
		sizes:  sizes,
		q:      quota{limit: max(limit, 0)},
	}
}

// MakeBatches 按配额对提取结果分批
func MakeBatches(x *Extraction, limit Limit) *Batcher {
	return NewBatcher(x.Buffer, x.Bytes, limit.Sizes(x), limit.N)
}

// Next 返回下一批；没有更多批次时返回 false
func (b *Batcher) Next() (Batch, bool) {
	for b.next <= len(b.sizes) {
		// 最后一段之后补一个无穷大的哨兵，迫使尾部批次结束
		size := math.MaxInt
		if b.next < len(b.sizes) {
			size = b.sizes[b.next]
		}

		var out Batch
		full := b.q.advance(size)
		emit := full && b.next > b.first
		if emit {
			out = b.cut()
		}
		if b.next < len(b.sizes) {
			b.end += b.bytes[b.next]
			b.size = addCapped(b.size, size)
		}
		b.next++
		if emit {
			return out, true
		}
	}
	return Batch{}, false
}

// cut 结束 [first, next) 的批次
func (b *Batcher) cut() Batch {
	out := Batch{
		Text:  b.buffer[b.pos:b.end],
		Start: b.pos,
		End:   b.end,
		First: b.first,
		Count: b.next - b.first,
		Size:  b.size,
	}
	b.pos = b.end
	b.first = b.next
	b.size = 0
	return out
}

// All 以迭代器形式返回剩余批次
func (b *Batcher) All() iter.Seq[Batch] {
	return func(yield func(Batch) bool) {
		for {
			batch, ok := b.Next()
			if !ok || !yield(batch) {
				return
			}
		}
	}
}

// Collect 取出剩余的全部批次
func (b *Batcher) Collect() []Batch {
	var out []Batch
	for batch := range b.All() {
		out = append(out, batch)
	}
	return out
}

// Segments 将批次文本拆回各段（不含结尾的 \n）
func (batch Batch) Segments(x *Extraction) []string {
	out := make([]string, 0, batch.Count)
	pos := batch.Start
	for _, n := range x.Bytes[batch.First : batch.First+batch.Count] {
		out = append(out, x.Buffer[pos:pos+n-1])
		pos += n
	}
	return out
}
