package idgen

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Snowflake ID 的位数分配与边界常量
const (
	// Epoch 起始时间戳 (2023-01-01 00:00:00 UTC，毫秒)
	Epoch int64 = 1672502400000

	// 位数分配
	WorkerIDBits     = 5  // 工作机器ID位数
	DatacenterIDBits = 5  // 数据中心ID位数
	SequenceBits     = 12 // 序列号位数

	// 最大值计算(切记不是个数)
	MaxWorkerID     = -1 ^ (-1 << WorkerIDBits)     // 31 [0, 31]
	MaxDatacenterID = -1 ^ (-1 << DatacenterIDBits) // 31 [0, 31]
	MaxSequence     = -1 ^ (-1 << SequenceBits)     // 4095 [0, 4095]

	// 位移量
	WorkerIDShift     = SequenceBits                                   // 12
	DatacenterIDShift = SequenceBits + WorkerIDBits                    // 17
	TimestampShift    = SequenceBits + WorkerIDBits + DatacenterIDBits // 22

	// 时钟回拨最大容忍时间（毫秒），超出即拒绝生成
	maxClockBackwardTolerance = 5

	// 等待下一毫秒时的休眠时间
	sleepDuration = 100 * time.Microsecond
)

// 生成器错误定义
var (
	// ErrInvalidWorkerID 工作机器ID越界
	ErrInvalidWorkerID = errors.New("idgen: worker id out of range")
	// ErrInvalidDatacenterID 数据中心ID越界
	ErrInvalidDatacenterID = errors.New("idgen: datacenter id out of range")
	// ErrClockBackward 时钟回拨超出容忍范围
	ErrClockBackward = errors.New("idgen: clock moved backwards")
)

// Generator Snowflake 算法的 ID 生成器
// 用途：为新注册的账户分配全局唯一、趋势递增的主键
type Generator struct {
	// ========== 核心状态 ==========
	lastTimestamp int64 // 上次生成ID的时间戳（毫秒）
	sequence      int64 // 当前毫秒内的序列号（0-4095）

	// precomputedPart 预计算的 datacenterID 和 workerID 部分
	// 这两部分在生成器生命周期内不变，避免每次生成时重复计算
	precomputedPart int64

	// now 时间源，测试时可替换
	now func() time.Time

	// mu 互斥锁，保护生成器状态
	mu sync.Mutex
}

// New 创建 Snowflake ID 生成器
func New(datacenterID, workerID int64) (*Generator, error) {
	if workerID < 0 || workerID > MaxWorkerID {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkerID, workerID)
	}
	if datacenterID < 0 || datacenterID > MaxDatacenterID {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDatacenterID, datacenterID)
	}

	return &Generator{
		lastTimestamp:   -1,
		sequence:        0,
		precomputedPart: (datacenterID << DatacenterIDShift) | (workerID << WorkerIDShift),
		now:             time.Now,
	}, nil
}

// NextID 生成下一个唯一ID（线程安全）
func (g *Generator) NextID() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	timestamp := g.currentMillis()

	// 时钟回拨处理：容忍范围内等待追平，超出直接报错
	if timestamp < g.lastTimestamp {
		offset := g.lastTimestamp - timestamp
		if offset > maxClockBackwardTolerance {
			return 0, fmt.Errorf("%w: %dms", ErrClockBackward, offset)
		}
		timestamp = g.waitUntil(g.lastTimestamp)
	}

	if timestamp == g.lastTimestamp {
		g.sequence = (g.sequence + 1) & MaxSequence
		if g.sequence == 0 {
			// 当前毫秒的序列号耗尽，等待下一毫秒
			timestamp = g.waitUntil(g.lastTimestamp + 1)
		}
	} else {
		g.sequence = 0
	}

	g.lastTimestamp = timestamp

	id := ((timestamp - Epoch) << TimestampShift) | g.precomputedPart | g.sequence
	return id, nil
}

// currentMillis 返回当前的毫秒时间戳
func (g *Generator) currentMillis() int64 {
	return g.now().UnixMilli()
}

// waitUntil 自旋等待直到时间戳到达目标值
func (g *Generator) waitUntil(target int64) int64 {
	timestamp := g.currentMillis()
	for timestamp < target {
		time.Sleep(sleepDuration)
		timestamp = g.currentMillis()
	}
	return timestamp
}

// Parse 从ID中解析出各组成部分（时间戳为毫秒绝对时间）
func Parse(id int64) (timestamp, datacenterID, workerID, sequence int64) {
	timestamp = (id >> TimestampShift) + Epoch
	datacenterID = (id >> DatacenterIDShift) & MaxDatacenterID
	workerID = (id >> WorkerIDShift) & MaxWorkerID
	sequence = id & MaxSequence
	return
}
