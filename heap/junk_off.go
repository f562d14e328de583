//go:build heapnojunk

package heap

const defaultJunkFill = false
