package main

import "github.com/magnetlab/ips-alarm-monitor/cmd/ips-alarm-monitor/cmd"

func main() {
	cmd.Execute()
}
