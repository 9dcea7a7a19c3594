package aida

// SampleLog is a short AIDA64 export captured on an Intel i5-1335U laptop.
// It exercises the preamble, the units row and an annotation line.
const SampleLog = `Version,AIDA64 v7.65.7400
CPU Type,2C+8c Intel Core i5-1335U, 4300 MHz (43 x 100)
Motherboard Name,Acer Aspire A514-56P
Video Adapter,Intel Raptor Lake-U 80/96EU - Integrated Graphics Controller
Log Started,6/5/2025 4:35:19 PM
Date,Time,UpTime,CPU,CPU Package,CPU IA Cores,CPU GT Cores,HDD1
,,,°C,°C,°C,°C,°C
* Processes stopped: dllhost.exe
6/5/2025,4:36:36 PM,05:04:42,48,46,46,46,36
6/5/2025,4:36:37 PM,05:04:43,54,47,47,47,36
6/5/2025,4:36:39 PM,05:04:44,55,48,48,47,36
6/5/2025,4:36:40 PM,05:04:46,48,47,46,47,36
6/5/2025,4:36:41 PM,05:04:47,52,49,49,48,36
6/5/2025,4:36:42 PM,05:04:48,58,52,52,49,37
6/5/2025,4:36:43 PM,05:04:49,61,54,54,51,37`
