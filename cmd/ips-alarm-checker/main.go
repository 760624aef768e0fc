package main

import "github.com/magnetlab/ips-alarm-monitor/cmd/ips-alarm-checker/cmd"

func main() {
	cmd.Execute()
}
