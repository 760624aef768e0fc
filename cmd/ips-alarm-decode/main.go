package main

import "github.com/magnetlab/ips-alarm-monitor/cmd/ips-alarm-decode/cmd"

func main() {
	cmd.Execute()
}
