package types

import (
	"sort"
	"sync"
)

// Metadata 通道元数据表（线程安全）
//
// 服务和处理器可以在其中保存与通道生命周期相同的状态。
type Metadata struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMetadata 创建空元数据表
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]any)}
}

// Get 读取键值
func (m *Metadata) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// GetString 读取字符串值；不存在或类型不符时返回空字符串
func (m *Metadata) GetString(key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Set 写入键值
func (m *Metadata) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Delete 删除键
func (m *Metadata) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

// Len 返回键数量
func (m *Metadata) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Keys 返回排序后的键列表
func (m *Metadata) Keys() []string {
	m.mu.RLock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Range 遍历所有键值，fn 返回 false 时停止
//
// 遍历的是快照，fn 内可以安全地修改元数据表。
func (m *Metadata) Range(fn func(key string, value any) bool) {
	m.mu.RLock()
	snapshot := make(map[string]any, len(m.values))
	for k, v := range m.values {
		snapshot[k] = v
	}
	m.mu.RUnlock()

	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}
