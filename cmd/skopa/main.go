// Skopa - AWS resource inventory exporter
// Scan every region. Write one workbook.
package main

func main() {
	Execute()
}
