package encode

// ConvertArgs assembles the complete FFmpeg argument list for one
// conversion: preamble, input, video codec section, audio stream
// sections, metadata passthrough, output. The order is fixed so
// generated commands are diffable between runs.
func ConvertArgs(input, output string, video EncodingConfig, audio []AudioStreamSpec) ([]string, error) {
	args := make([]string, 0, 32)
	args = append(args, "-hide_banner", "-nostdin", "-y")
	args = append(args, "-i", input)
	args = append(args, "-map", "0:v:0")
	args = append(args, video.Args()...)

	audioArgs, err := AudioArgs(audio)
	if err != nil {
		return nil, err
	}
	args = append(args, audioArgs...)

	args = append(args, "-map_metadata", "0", "-map_chapters", "0")
	args = append(args, output)
	return args, nil
}
