package xcoerce

import "errors"

var (
	// ErrInvalidBool 表示字符串不在布尔词表中。
	ErrInvalidBool = errors.New("xcoerce: invalid boolean token")

	// ErrConvert 表示字符串无法转换为声明类型。
	ErrConvert = errors.New("xcoerce: conversion failed")
)
