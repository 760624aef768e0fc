package main

import "github.com/magnetlab/ips-alarm-monitor/cmd/ips-alarm-packager/cmd"

func main() {
	cmd.Execute()
}
