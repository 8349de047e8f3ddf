// Package resources はアプリケーションに埋め込まれる設定ファイルと JSL 定義を提供します。
package resources

import (
	_ "embed"
)

//go:embed application.yaml
var ApplicationConfig []byte // application.yaml の内容をバイトスライスとして埋め込む

//go:embed job.yaml
var JobDefinition []byte // JSL YAML ファイルを埋め込む
