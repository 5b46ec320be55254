package stack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xenon-xml/xenon/internal/stack"
)

func TestStack(t *testing.T) {
	var s stack.Stack[string]
	s.Push("root")
	s.Push("child")

	if !assert.Equal(t, 2, s.Len(), "Len == 2") {
		return
	}

	top, ok := s.Peek()
	if !assert.True(t, ok, "Peek succeeds") {
		return
	}
	if !assert.Equal(t, "child", top, "Peek returns the innermost item") {
		return
	}

	v, ok := s.Pop()
	if !assert.True(t, ok, "Pop succeeds") {
		return
	}
	if !assert.Equal(t, "child", v, "Pop returns the innermost item") {
		return
	}
	if !assert.Equal(t, 1, s.Len(), "Len == 1") {
		return
	}
}

func TestStackEmpty(t *testing.T) {
	var s stack.Stack[int]

	_, ok := s.Pop()
	assert.False(t, ok, "Pop on empty stack reports failure")

	_, ok = s.Peek()
	assert.False(t, ok, "Peek on empty stack reports failure")
}

func TestStackShrink(t *testing.T) {
	var s stack.Stack[int]
	for i := 0; i < 100; i++ {
		s.Push(i)
	}
	for i := 99; i >= 0; i-- {
		v, ok := s.Pop()
		if !assert.True(t, ok, "Pop succeeds") {
			return
		}
		if !assert.Equal(t, i, v, "items pop in LIFO order") {
			return
		}
	}
	assert.Equal(t, 0, s.Len(), "stack is empty")
}
