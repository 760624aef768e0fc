package main

import "github.com/magnetlab/ips-alarm-monitor/cmd/ips-alarm-updater/cmd"

func main() {
	cmd.Execute()
}
